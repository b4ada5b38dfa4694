package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	assert.Equal(t, "****", mask("short"))
	assert.Equal(t, "AIza****wxyz", mask("AIzaabcdwxyz"))
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://***@db:5432/foxie", redactDSN("postgres://user:pw@db:5432/foxie"))
	assert.Equal(t, "postgres://db/foxie", redactDSN("postgres://db/foxie"))
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"generate", "agent", "validate", "serve", "config"} {
		assert.Contains(t, names, want)
	}
}
