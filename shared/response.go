package shared

import (
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

var jsonAPI = sonic.Config{
	UseNumber:            true,
	EscapeHTML:           false,
	SortMapKeys:          false,
	CompactMarshaler:     true,
	NoQuoteTextMarshaler: true,
	NoNullSliceOrMap:     true,
}.Froze()

// JSONMarshal is plugged into the fiber app config so body parsing and
// c.JSON go through sonic as well.
func JSONMarshal(v interface{}) ([]byte, error) {
	return jsonAPI.Marshal(v)
}

func JSONUnmarshal(data []byte, v interface{}) error {
	return jsonAPI.Unmarshal(data, v)
}

func ResponseJSON(c *fiber.Ctx, httpCode int, data interface{}) error {
	body, err := jsonAPI.Marshal(data)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(httpCode).Send(body)
}

// ResponseError writes the error body shape the clients expect:
// {"error": message} plus any structured details.
func ResponseError(c *fiber.Ctx, httpCode int, message string, data map[string]interface{}) error {
	body := map[string]interface{}{"error": message}
	for k, v := range data {
		if k != "error" {
			body[k] = v
		}
	}
	return ResponseJSON(c, httpCode, body)
}
