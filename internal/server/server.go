package server

// Server объединяет HTTP серверы конкретных сущностей.
// Сейчас он один, анализ сертификатов.
type Server struct {
	AnalysisServer
}

func NewServer(
	analysisServer AnalysisServer,
) Server {
	return Server{
		AnalysisServer: analysisServer,
	}
}
