package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// ClientError is a 4xx response
type ClientError struct {
	StatusCode int
	Code       string
	Msg        string
	Headers    http.Header
}

func (e *ClientError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("client error (status %d): %s", e.StatusCode, e.Msg)
	}
	return fmt.Sprintf("client error (status %d, code %s): %s", e.StatusCode, e.Code, e.Msg)
}

// ServerError is a 5xx response
type ServerError struct {
	StatusCode int
	Text       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Text)
}

// errorResponse covers the error bodies of the apis the filler calls
type errorResponse struct {
	Code    json.RawMessage `json:"code"`
	Msg     string          `json:"msg"`
	Message string          `json:"message"`
}

func handleException(resp *resty.Response) error {
	statusCode := resp.StatusCode()

	if statusCode < 400 {
		return nil
	}

	if statusCode >= 500 {
		return &ServerError{
			StatusCode: statusCode,
			Text:       string(resp.Body()),
		}
	}

	clientErr := &ClientError{
		StatusCode: statusCode,
		Msg:        string(resp.Body()),
		Headers:    resp.Header(),
	}

	var errResp errorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err != nil {
		return clientErr
	}

	if len(errResp.Code) > 0 {
		var code string
		if err := json.Unmarshal(errResp.Code, &code); err != nil {
			code = string(errResp.Code)
		}
		clientErr.Code = code
	}
	switch {
	case errResp.Msg != "":
		clientErr.Msg = errResp.Msg
	case errResp.Message != "":
		clientErr.Msg = errResp.Message
	}

	return clientErr
}
