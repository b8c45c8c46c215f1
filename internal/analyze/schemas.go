package analyze

import "encoding/json"

// Structured-output schemas for the two classifier calls. The provider
// enforces these server-side; the client still validates the decode.

var chunkOutcomeSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"summary": {
			"type": "string",
			"description": "Resumen de 2-3 oraciones de este fragmento"
		},
		"is_financial": {
			"type": "boolean",
			"description": "Si el fragmento discute temas o instituciones financieras"
		}
	},
	"required": ["summary", "is_financial"],
	"additionalProperties": false
}`)

var financialClassificationSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"is_financial": {
			"type": "boolean",
			"description": "Si el contenido discute el sistema financiero o instituciones financieras"
		},
		"confidence": {
			"type": "number",
			"minimum": 0,
			"maximum": 1,
			"description": "Nivel de confianza de 0.0 a 1.0"
		},
		"entities": {
			"type": "array",
			"items": {"type": "string"},
			"description": "Instituciones financieras o entes reguladores mencionados"
		},
		"reasoning": {
			"type": "string",
			"description": "Breve explicación de por qué el contenido es financiero"
		}
	},
	"required": ["is_financial", "confidence", "entities", "reasoning"],
	"additionalProperties": false
}`)
