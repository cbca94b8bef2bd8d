package requestfile

// documentSchema is the JSON schema every request document must satisfy.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["method"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string"},
    "method": {
      "type": "string",
      "enum": ["GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "TRACE"]
    },
    "url": {"type": "string"},
    "baseURL": {"type": "string"},
    "profile": {"type": "string"},
    "timeout": {"type": "string"},
    "charset": {"type": "string"},
    "headers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "value"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string"},
          "value": {"type": "string"}
        }
      }
    },
    "cookies": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "value"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string"},
          "value": {"type": "string"}
        }
      }
    },
    "body": {"type": "string"},
    "bodyFile": {"type": "string"},
    "bodyBase64": {"type": "string"},
    "extract": {
      "type": "array",
      "items": {"type": "string"}
    }
  }
}`
