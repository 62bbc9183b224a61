package validation

var schemaSources = map[string]string{
	SchemaMatchRequest:        matchRequestSchema,
	SchemaConsultationRequest: consultationRequestSchema,
	SchemaConsultationUpdate:  consultationUpdateSchema,
	SchemaMatchScoreInput:     matchScoreInputSchema,
}

const matchRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["recipeCategory", "monthlyQuantity"],
  "properties": {
    "recipeCategory": {"type": "string", "minLength": 1},
    "monthlyQuantity": {"type": "integer", "minimum": 1},
    "budget": {"type": ["number", "null"], "minimum": 0},
    "requiredCertifications": {
      "type": ["array", "null"],
      "items": {"type": "string"}
    },
    "preferredRegion": {"type": ["string", "null"]},
    "urgency": {"type": ["string", "null"], "enum": ["normal", "urgent", "flexible", "", null]}
  }
}`

const consultationRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "phone"],
  "properties": {
    "name": {"type": "string"},
    "company": {"type": "string"},
    "phone": {"type": "string"},
    "email": {"type": "string"},
    "position": {"type": "string"},
    "projectType": {
      "type": "string",
      "enum": ["", "rmr_development", "recipe_digitization", "factory_matching", "brand_consulting", "menu_optimization", "other"]
    },
    "description": {"type": "string", "maxLength": 5000},
    "budget": {"type": "string"},
    "timeline": {"type": "string"},
    "referralSource": {"type": "string"},
    "preferredContactTime": {"type": "string"}
  }
}`

const consultationUpdateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "status": {
      "type": "string",
      "enum": ["pending", "contacted", "in_progress", "proposal_sent", "contracted", "completed", "cancelled"]
    },
    "assignedTo": {"type": "string"},
    "description": {"type": "string", "maxLength": 5000},
    "budget": {"type": "string"},
    "timeline": {"type": "string"},
    "addNote": {"type": "string"},
    "createdBy": {"type": "string"}
  }
}`

const matchScoreInputSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["factory", "request"],
  "properties": {
    "factory": {
      "type": "object",
      "required": ["id", "baseCostPerUnit", "rating", "successfulProjects", "leadTime"],
      "properties": {
        "id": {"type": "string"},
        "baseCostPerUnit": {"type": "number", "exclusiveMinimum": 0},
        "rating": {"type": "number", "minimum": 0, "maximum": 5},
        "successfulProjects": {"type": "integer", "minimum": 0},
        "leadTime": {"type": "integer", "minimum": 0}
      }
    },
    "request": {"type": "object"},
    "averageCost": {"type": "number", "minimum": 0}
  }
}`
