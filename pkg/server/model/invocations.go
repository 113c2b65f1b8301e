package model

// InvocationError is the body returned when an invocation fails.
type InvocationError struct {
	ErrorType    string `json:"errorType" example:"HandlerError"`
	ErrorMessage string `json:"errorMessage" example:"handler \"lambda_handler\" failed: boom"`
}

// ProxyRequest documents the event the catch-all route hands to the function.
type ProxyRequest struct {
	Path                  string            `json:"path" example:"/api/parse-pdf"`
	HTTPMethod            string            `json:"httpMethod" example:"POST"`
	Headers               map[string]string `json:"headers"`
	QueryStringParameters map[string]string `json:"queryStringParameters,omitempty"`
	Body                  string            `json:"body" example:"{\"user_prompt\":\"Summarise https://example.com/a.pdf\"}"`
	IsBase64Encoded       bool              `json:"isBase64Encoded" example:"false"`
}

// ProxyResponse documents what a function returns for a proxy request.
type ProxyResponse struct {
	StatusCode int               `json:"statusCode" example:"200"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body" example:"pong"`
}
