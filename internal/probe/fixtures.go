package probe

// DefaultPixelColor is the hex value repeated across the valid pixel grid.
const DefaultPixelColor = "#ffb7b2"

// PixelCount is the exact grid size the worker accepts.
const PixelCount = 16

// ValidPixels returns a well-formed pixel grid: exactly PixelCount repeated
// entries of the given color, or DefaultPixelColor when color is empty.
func ValidPixels(color string) []string {
	if color == "" {
		color = DefaultPixelColor
	}
	pixels := make([]string, PixelCount)
	for i := range pixels {
		pixels[i] = color
	}
	return pixels
}

// DefaultCases builds the fixed battery, in the order results must be
// reported. Each mutation derives from the valid base payload.
func DefaultCases() []Case {
	return []Case{
		{
			Name: "valid",
			Body: JSONBody{Payload: ExchangePayload{Title: "ok", Pixels: ValidPixels("")}},
		},
		{
			// 6 chars, one over the worker's 5-character title limit.
			Name: "too_long_title",
			Body: JSONBody{Payload: ExchangePayload{Title: "123456", Pixels: ValidPixels("")}},
		},
		{
			// 15 entries instead of 16.
			Name: "wrong_length_pixels",
			Body: JSONBody{Payload: ExchangePayload{Title: "ok", Pixels: ValidPixels("")[:PixelCount-1]}},
		},
		{
			Name: "invalid_color_format",
			Body: JSONBody{Payload: ExchangePayload{Title: "ok", Pixels: invalidColorPixels()}},
		},
		{
			Name: "non_array_pixels",
			Body: JSONBody{Payload: ExchangePayload{Title: "ok", Pixels: "not-an-array"}},
		},
		{
			Name: "not_json_body",
			Body: RawBody("not-json"),
		},
	}
}

func invalidColorPixels() []string {
	pixels := ValidPixels("")
	pixels[0] = "red"
	return pixels
}
