package swaggerkit

// docJSON is the hand-maintained OpenAPI document served to the UI.
// Keep it in sync with the routes in internal/services/seenby/http
const docJSON = `{
  "openapi": "3.0.3",
  "info": {"title": "seenby API", "version": "1.0.0"},
  "paths": {
    "/api/v1/posts/{postID}/seen-by": {
      "get": {
        "summary": "Seen-by status for a post",
        "parameters": [
          {"name": "postID", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {
            "description": "count of views and, when the strategy tracks it, per-user counts",
            "content": {"application/json": {"schema": {"$ref": "#/components/schemas/SeenByEnvelope"}}}
          },
          "400": {"description": "empty post id"},
          "404": {"description": "post does not exist"}
        }
      }
    },
    "/api/v1/posts/{postID}/seen-by/{userID}": {
      "post": {
        "summary": "Record that a user saw a post",
        "parameters": [
          {"name": "postID", "in": "path", "required": true, "schema": {"type": "string"}},
          {"name": "userID", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {
            "description": "updated count for the post",
            "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CountEnvelope"}}}
          },
          "400": {"description": "empty post or user id"},
          "404": {"description": "post does not exist"}
        }
      }
    }
  },
  "components": {
    "schemas": {
      "SeenByEnvelope": {
        "type": "object",
        "properties": {
          "status_code": {"type": "integer"},
          "status": {"type": "string"},
          "request_id": {"type": "string"},
          "data": {
            "type": "object",
            "properties": {
              "count": {"type": "integer", "format": "int64"},
              "users": {"type": "object", "additionalProperties": {"type": "integer", "format": "int64"}}
            }
          }
        }
      },
      "CountEnvelope": {
        "type": "object",
        "properties": {
          "status_code": {"type": "integer"},
          "status": {"type": "string"},
          "request_id": {"type": "string"},
          "data": {
            "type": "object",
            "properties": {"count": {"type": "integer", "format": "int64"}}
          }
        }
      }
    }
  }
}`
