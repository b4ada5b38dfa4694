package filegen

import (
	"fmt"

	"foxie/internal/templates"
	"foxie/internal/types"
)

// brief is the per-kind part of a single-file prompt.
type brief struct {
	purpose string
	rules   []string
	example string // style-guide example name, if any
}

type naming struct {
	Type, File, Plural, Module, DBType string
	Mongo, Auth, Protect               bool
}

func newNaming(p Project) naming {
	d := templates.Data{ProjectName: p.Name, Backend: p.Backend, AuthEnabled: p.AuthEnabled}
	return naming{
		Type:    types.ResourceType(p.Resource),
		File:    types.ResourceFile(p.Resource),
		Plural:  types.ResourcePlural(p.Resource),
		Module:  d.Module(),
		DBType:  d.DBType(),
		Mongo:   d.Mongo(),
		Auth:    p.AuthEnabled,
		Protect: p.AuthEnabled && p.ProtectRoutes,
	}
}

func (n naming) pick(sql, mongo string) string {
	if n.Mongo {
		return mongo
	}
	return sql
}

func briefFor(k Kind, n naming) brief {
	switch k {
	case KindConfig:
		return brief{
			purpose: "Generate the configuration file of a gin service (package core).",
			example: "config.go.example",
			rules: []string{
				"Define Settings with ProjectName, Port, DatabaseURL, DatabaseName, SecretKey and TokenExpiration time.Duration.",
				"Provide Load() Settings reading environment variables with sensible defaults.",
			},
		}
	case KindDBSession:
		return brief{
			purpose: "Generate the database session file (package database).",
			example: n.pick("db_session.go.example", "db_session_mongodb.go.example"),
			rules: []string{
				fmt.Sprintf("Expose Open(settings core.Settings) (%s, error).", n.DBType),
				n.pick(
					fmt.Sprintf("Use gorm.io/gorm and call AutoMigrate for models.%s%s.", n.Type, authSuffix(n, " and models.User")),
					"Use go.mongodb.org/mongo-driver, ping the server and return the database named by settings.DatabaseName.",
				),
			},
		}
	case KindBaseModel:
		return brief{
			purpose: "Generate the base entity shared by every model (package models).",
			example: n.pick("base_model.go.example", "base_model_mongodb.go.example"),
			rules: []string{
				n.pick(
					"Define BaseModel with an ID uint primary key plus CreatedAt and UpdatedAt timestamps.",
					"Define BaseDocument with an ID primitive.ObjectID plus CreatedAt and UpdatedAt, and a Touch() method.",
				),
				"Define no resource types in this file.",
			},
		}
	case KindResourceModel:
		return brief{
			purpose: fmt.Sprintf("Generate the %s model (package models).", n.Type),
			rules: []string{
				fmt.Sprintf("Define %s embedding %s.", n.Type, n.pick("BaseModel", "BaseDocument with bson:\",inline\"")),
				"Map every input field to an idiomatic Go type.",
				fmt.Sprintf("Every field carries an explicit %s tag plus a json tag; never mix tagged and untagged fields.", n.pick("gorm", "bson")),
			},
		}
	case KindResourceSchema:
		return brief{
			purpose: fmt.Sprintf("Generate the request and response schemas for %s (package schemas).", n.Type),
			rules: []string{
				fmt.Sprintf("Provide %[1]sBase, %[1]sCreate, %[1]sUpdate (pointer fields) and %[1]sResponse with id and timestamps.", n.Type),
				fmt.Sprintf("Provide New%[1]sResponse(m *models.%[1]s) %[1]sResponse.", n.Type),
				"Use gin binding:\"required\" tags on required create fields.",
			},
		}
	case KindResourceCRUD:
		return brief{
			purpose: fmt.Sprintf("Generate the data-access layer for %s (package crud).", n.Type),
			rules: []string{
				fmt.Sprintf("Define %[1]sRepository built by New%[1]sRepository(db %[2]s).", n.Type, n.DBType),
				"Expose exactly Get, List(ctx, page, size int), Create, Update and Delete, each taking ctx first.",
				"Update applies only non-nil fields.",
				"Return a package-level ErrNotFound when a record does not exist.",
			},
		}
	case KindResourceEndpoint:
		rules := []string{
			fmt.Sprintf("Expose Register%sRoutes(rg *gin.RouterGroup, db %s, settings core.Settings) mounting /%s.", n.Type, n.DBType, n.Plural),
			"GET list and GET one return 200; POST returns http.StatusCreated; PUT returns 200; DELETE returns http.StatusNoContent.",
			"Missing records return 404; invalid payloads return 422 with gin.H{\"detail\": ...}.",
			fmt.Sprintf("Reply with schemas.%sResponse values.", n.Type),
		}
		if n.Protect {
			rules = append(rules, fmt.Sprintf("Protect POST, PUT and DELETE with dependencies.RequireUser(db, settings) and import %q.", n.Module+"/internal/dependencies"))
		}
		return brief{purpose: fmt.Sprintf("Generate the HTTP handlers for %s (package endpoints).", n.Type), rules: rules}
	case KindRouter:
		return brief{
			purpose: "Generate the API router aggregation file (package api).",
			rules: []string{
				fmt.Sprintf("Expose RegisterRoutes(engine *gin.Engine, db %s, settings core.Settings).", n.DBType),
				fmt.Sprintf("Create the /api/v1 group and delegate to endpoints.Register%sRoutes%s.", n.Type, authSuffix(n, " and endpoints.RegisterAuthRoutes")),
				"Register no handlers directly in this file.",
			},
		}
	case KindAuthDependency:
		return brief{
			purpose: "Generate the authentication middleware (package dependencies).",
			example: "auth_dependency.go.example",
			rules: []string{
				fmt.Sprintf("Expose RequireUser(db %s, settings core.Settings) gin.HandlerFunc reading a bearer token.", n.DBType),
				"Expose CurrentUser(c *gin.Context) returning the authenticated user.",
				"Reject missing or invalid tokens with 401.",
			},
		}
	case KindMain:
		return brief{
			purpose: "Generate the service entry point (package main).",
			example: "main.go.example",
			rules: []string{
				"Load settings, open the database, build a gin engine, call api.RegisterRoutes and run on settings.Port.",
			},
		}
	case KindSecurity:
		return brief{
			purpose: "Generate password hashing and token helpers (package core).",
			example: "security.go.example",
			rules: []string{"Provide HashPassword, CheckPassword, CreateAccessToken and ParseAccessToken using golang-jwt/jwt/v5 and bcrypt."},
		}
	case KindUserModel:
		return brief{
			purpose: "Generate the User model (package models).",
			example: "user_model.go.example",
			rules:   []string{"User embeds the base entity and has Email, HashedPassword and IsActive."},
		}
	case KindUserSchema:
		return brief{
			purpose: "Generate the user schemas (package schemas).",
			rules:   []string{"Provide UserCreate, UserLogin, UserResponse, TokenResponse and NewUserResponse."},
		}
	case KindUserCRUD:
		return brief{
			purpose: "Generate the user data-access layer (package crud).",
			rules:   []string{"Provide UserRepository with NewUserRepository, Get, GetByEmail, Create and Authenticate."},
		}
	case KindAuthEndpoint:
		return brief{
			purpose: "Generate the authentication handlers (package endpoints).",
			example: "auth_endpoints.go.example",
			rules: []string{
				fmt.Sprintf("Expose RegisterAuthRoutes(rg *gin.RouterGroup, db %s, settings core.Settings).", n.DBType),
				"POST /auth/register returns 201; POST /auth/login returns 200 with a bearer token.",
			},
		}
	}
	return brief{
		purpose: "Generate the requested Go source file for a gin service.",
		rules:   []string{"Derive the package name from the file's directory."},
	}
}

func authSuffix(n naming, s string) string {
	if n.Auth {
		return s
	}
	return ""
}
