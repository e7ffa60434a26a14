package currency

// convertResponse ответ GET /convert сервиса exchangerate.host.
type convertResponse struct {
	Success bool `json:"success"`
	Query   struct {
		From   string  `json:"from"`
		To     string  `json:"to"`
		Amount float64 `json:"amount"`
	} `json:"query"`
	Result float64    `json:"result"`
	Error  *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}
