package analyze

import (
	"fmt"
	"strings"
)

const chunkAnalysisSystemPrompt = `Eres un analista experto de documentos legislativos de la Asamblea Legislativa de Costa Rica.

Tu tarea es analizar fragmentos individuales de actas legislativas y realizar dos acciones:

1. RESUMEN: Genera un resumen conciso de 2-3 oraciones que capture los puntos clave de este fragmento.

2. CLASIFICACIÓN FINANCIERA: Determina si este fragmento específico discute temas relacionados con:
   - Sistema financiero nacional
   - Instituciones financieras (bancos, cooperativas, mutuales, financieras)
   - Entidades como BAC, BCR, BNCR, Banco Popular, Banco Nacional, etc.
   - Regulación bancaria o financiera
   - SUGEF, CONASSIF, BCCR, u otros entes reguladores financieros

Responde con:
- summary: resumen breve en español formal
- is_financial: true/false según si el fragmento trata temas financieros

Sé preciso: solo marca is_financial=true si el fragmento REALMENTE discute temas financieros.`

const financialClassificationSystemPrompt = `Eres un clasificador experto de contenido financiero para documentos legislativos de Costa Rica.

Tu tarea es proporcionar una clasificación detallada del contenido financiero:

1. is_financial: true (ya se determinó que es financiero)
2. confidence: Nivel de confianza (0.0 a 1.0) de que el contenido es financiero
3. entities: Lista de instituciones financieras o entidades reguladoras mencionadas
   Ejemplos: BAC, BCR, BNCR, Banco Popular, Banco Nacional, SUGEF, CONASSIF, BCCR, cooperativas, mutuales, financieras
4. reasoning: Breve explicación (1-2 oraciones) de por qué este contenido es financiero

Sé específico al identificar entidades. Si se menciona "bancos" en general sin nombres específicos, déjalo en reasoning pero no en entities.`

const generalSummarySystemPrompt = `Eres un analista legislativo experto de la Asamblea Legislativa de Costa Rica.

Tu tarea es generar un resumen general coherente y profesional de un documento legislativo completo, basándote en resúmenes de sus secciones.

Directrices:
- Resume las discusiones, decisiones y votaciones clave
- Mantén el orden cronológico de los temas
- Incluye nombres importantes y números de expedientes
- Usa lenguaje formal y profesional en español
- Extensión objetivo: 200-500 palabras
- Sé conciso pero comprehensivo
- Conecta las ideas de forma fluida y coherente

NO repitas información redundante de las secciones. Sintetiza y conecta los puntos clave.`

const financialSummarySystemPrompt = `Eres un analista financiero especializado en asuntos legislativos de Costa Rica.

Tu tarea es generar un resumen detallado enfocado EXCLUSIVAMENTE en los temas financieros discutidos en el documento legislativo.

Incluye:
- Qué instituciones financieras específicas se mencionan
- Qué regulaciones o proyectos de ley las afectan
- Decisiones o votaciones clave relacionadas con temas financieros
- Implicaciones para el sistema financiero nacional

Directrices:
- Usa lenguaje formal y profesional en español
- Extensión objetivo: 200-500 palabras
- Sé específico sobre entidades y regulaciones mencionadas
- Conecta los temas financieros de forma coherente

Enfócate SOLO en contenido financiero. No incluyas temas no relacionados.`

// buildGeneralSummaryPrompt joins per-chunk summaries with 1-indexed
// section markers, preserving chunk order.
func buildGeneralSummaryPrompt(summaries []string) string {
	var sb strings.Builder
	sb.WriteString("Genera un resumen general coherente y profesional del siguiente documento legislativo ")
	sb.WriteString("basándote en estos resúmenes de secciones:\n\n")
	for i, summary := range summaries {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("Sección %d:\n%s", i+1, summary))
	}
	return sb.String()
}

// buildFinancialSummaryPrompt joins financial chunk summaries and weights
// the supplied entity list explicitly.
func buildFinancialSummaryPrompt(summaries, entities []string) string {
	entitiesText := "instituciones financieras"
	if len(entities) > 0 {
		entitiesText = strings.Join(entities, ", ")
	}

	var sb strings.Builder
	sb.WriteString("Genera un resumen detallado enfocado exclusivamente en temas financieros, ")
	sb.WriteString(fmt.Sprintf("prestando especial atención a: %s\n\n", entitiesText))
	sb.WriteString("Secciones financieras:\n\n")
	for i, summary := range summaries {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("Sección financiera %d:\n%s", i+1, summary))
	}
	return sb.String()
}
