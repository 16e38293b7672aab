package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Portal Berita API",
        "description": "News portal REST API with a role-based publication workflow",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Registration and token management"},
        {"name": "Berita", "description": "News articles and the publication workflow"},
        {"name": "Kategori", "description": "News taxonomy"},
        {"name": "KanalInstansi", "description": "Institution publishing channels"},
        {"name": "Komentar", "description": "Reader comments and moderation"},
        {"name": "Bookmark", "description": "Saved articles"},
        {"name": "Users", "description": "Administrator account management"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a reader account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and receive tokens",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Get the authenticated user's profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Auth"],
                "summary": "Update the authenticated user's profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/berita": {
            "get": {
                "tags": ["Berita"],
                "summary": "List news articles",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "kategori_id", "in": "query", "type": "integer"},
                    {"name": "kanal_instansi_id", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "is_featured", "in": "query", "type": "boolean"},
                    {"name": "is_breaking_news", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Berita"],
                "summary": "Create a news article",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateArticleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slug already in use"}
                }
            }
        },
        "/berita/my": {
            "get": {
                "tags": ["Berita"],
                "summary": "List own articles in any workflow status",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/berita/stats": {
            "get": {
                "tags": ["Berita"],
                "summary": "Article statistics for the editorial dashboard",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Editorial roles only"}
                }
            }
        },
        "/berita/stats/export": {
            "post": {
                "tags": ["Berita"],
                "summary": "Generate a PDF statistics report",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/berita/slug/{slug}": {
            "get": {
                "tags": ["Berita"],
                "summary": "Get a news article by slug",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/berita/{id}": {
            "get": {
                "tags": ["Berita"],
                "summary": "Get a news article",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Berita"],
                "summary": "Update a news article",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateArticleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Berita"],
                "summary": "Delete a news article",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/berita/{id}/status": {
            "patch": {
                "tags": ["Berita"],
                "summary": "Change an article's workflow status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Editorial roles only"}
                }
            }
        },
        "/berita/{id}/komentar": {
            "get": {
                "tags": ["Komentar"],
                "summary": "List comments on an article",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Komentar"],
                "summary": "Comment on a published article",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCommentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kategori": {
            "get": {
                "tags": ["Kategori"],
                "summary": "List categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Kategori"],
                "summary": "Create a category",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CategoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kanal-instansi": {
            "get": {
                "tags": ["KanalInstansi"],
                "summary": "List institution channels",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["KanalInstansi"],
                "summary": "Create an institution channel",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChannelRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookmarks": {
            "get": {
                "tags": ["Bookmark"],
                "summary": "List the authenticated user's bookmarks",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Bookmark"],
                "summary": "Bookmark a published article",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookmarkRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already bookmarked"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List user accounts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{id}/role": {
            "patch": {
                "tags": ["Users"],
                "summary": "Change a user's role",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["name", "email", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "bio": {"type": "string"},
                "avatar_url": {"type": "string"}
            }
        },
        "CreateArticleRequest": {
            "type": "object",
            "properties": {
                "judul": {"type": "string"},
                "slug": {"type": "string"},
                "konten": {"type": "string"},
                "ringkasan": {"type": "string"},
                "gambar_utama": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "kategori_id": {"type": "integer"},
                "kanal_instansi_id": {"type": "integer"},
                "status": {"type": "string", "enum": ["draft", "review", "published", "rejected", "archived"]},
                "meta_title": {"type": "string"},
                "meta_description": {"type": "string"},
                "is_featured": {"type": "boolean"},
                "is_breaking_news": {"type": "boolean"}
            },
            "required": ["judul", "slug", "konten", "kategori_id"]
        },
        "UpdateArticleRequest": {
            "type": "object",
            "properties": {
                "judul": {"type": "string"},
                "slug": {"type": "string"},
                "konten": {"type": "string"},
                "status": {"type": "string"},
                "is_featured": {"type": "boolean"},
                "is_breaking_news": {"type": "boolean"}
            }
        },
        "ChangeStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["draft", "review", "published", "rejected", "archived"]}
            },
            "required": ["status"]
        },
        "CategoryRequest": {
            "type": "object",
            "properties": {
                "nama": {"type": "string"},
                "slug": {"type": "string"},
                "deskripsi": {"type": "string"}
            },
            "required": ["nama", "slug"]
        },
        "ChannelRequest": {
            "type": "object",
            "properties": {
                "nama": {"type": "string"},
                "slug": {"type": "string"},
                "deskripsi": {"type": "string"},
                "logo_url": {"type": "string"},
                "is_verified": {"type": "boolean"}
            },
            "required": ["nama", "slug"]
        },
        "CreateCommentRequest": {
            "type": "object",
            "properties": {
                "konten": {"type": "string"},
                "parent_id": {"type": "integer"}
            },
            "required": ["konten"]
        },
        "CreateBookmarkRequest": {
            "type": "object",
            "properties": {
                "berita_id": {"type": "integer"},
                "notes": {"type": "string"}
            },
            "required": ["berita_id"]
        },
        "UpdateRoleRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "enum": ["admin", "jurnalis", "instansi", "pengguna"]}
            },
            "required": ["role"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "field": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
