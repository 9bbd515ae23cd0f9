package generation

import "fmt"

// Prompt wording is not contractual; only the requested JSON layout matters
// to the extractor.

func chatPrompt(prompt string) string {
	return prompt
}

func quizPrompt(topic string) string {
	return fmt.Sprintf(`Crie um quiz de múltipla escolha com exatamente 15 perguntas sobre "%s".
Distribua as perguntas em 5 de nível fácil, 5 de nível médio e 5 de nível difícil.
Cada pergunta tem cinco alternativas identificadas por a, b, c, d, e, e somente uma delas é correta.
Devolva somente um array JSON em que cada item segue o formato
{"nivel": "fácil|médio|difícil", "pergunta": "...", "alternativas": {"a": "...", "b": "...", "c": "...", "d": "...", "e": "..."}, "correta": "a|b|c|d|e"}
sem texto antes ou depois do array.`, topic)
}

func evaluationPrompt(question, answer string) string {
	return fmt.Sprintf(`Você é um professor corrigindo a resposta de um estudante.
Pergunta: "%s"
Resposta do estudante: "%s"
Diga se a resposta está correta, justifique de forma objetiva e sugira o que o estudante pode acrescentar para aprofundar o estudo.
Devolva somente um objeto JSON no formato
{"correta": true|false, "feedback": "...", "melhorar": "..."}`, question, answer)
}

func mindMapPrompt(topic string) string {
	return fmt.Sprintf(`Monte um mapa mental sobre "%s" com os conceitos principais e seus desdobramentos.
Devolva somente um objeto JSON no formato
{"nodes": [{"id": "1", "label": "Tema central"}, {"id": "2", "label": "Subtema", "parent": "1"}]}
Cada id deve ser único e todo parent deve apontar para um id existente.`, topic)
}
