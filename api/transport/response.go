package transport

// Response is the wire shape shared by every endpoint. Fields are omitted
// when a given endpoint's contract does not include them, which is why
// Success is a pointer.
type Response struct {
	Success *bool       `json:"success,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// Meta carries pagination data for the listing endpoint.
type Meta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

func boolPtr(v bool) *bool { return &v }

// Success wraps data as {success:true, data}.
func Success(data interface{}) Response {
	return Response{Success: boolPtr(true), Data: data}
}

// Created wraps a new record as {message, data, success:true}.
func Created(message string, data interface{}) Response {
	return Response{Success: boolPtr(true), Message: message, Data: data}
}

// SuccessMessage acknowledges an action as {success:true, message}.
func SuccessMessage(message string) Response {
	return Response{Success: boolPtr(true), Message: message}
}

// Failure reports an error as {success:false, message}.
func Failure(message string) Response {
	return Response{Success: boolPtr(false), Message: message}
}

// Message is a bare {message} body.
func Message(message string) Response {
	return Response{Message: message}
}

// MessageWithData is a {message, data} body.
func MessageWithData(message string, data interface{}) Response {
	return Response{Message: message, Data: data}
}

// Error is a bare {error} body, used by the todo not-found/forbidden paths.
func Error(message string) Response {
	return Response{Error: message}
}

// List is the paginated {data, meta} body.
func List(data interface{}, meta Meta) Response {
	return Response{Data: data, Meta: meta}
}
