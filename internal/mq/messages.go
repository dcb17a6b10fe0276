package mq

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Separator разделяет цвет и имя файла в ответе.
const Separator = "/"

// Response — разобранное сообщение очереди response.
type Response struct {
	Color    string
	Filename string
}

// String возвращает ответ в формате "<color>/<filename>".
func (r Response) String() string {
	return r.Color + Separator + r.Filename
}

// EncodeRequest кодирует имя файла для очереди request.
func EncodeRequest(filename string) []byte {
	return []byte(filename)
}

// DecodeRequest декодирует сообщение очереди request.
func DecodeRequest(body []byte) (string, error) {
	if !utf8.Valid(body) {
		return "", fmt.Errorf("%w: request is not valid UTF-8", ErrMalformedMessage)
	}

	filename := string(body)
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}

	return filename, nil
}

// EncodeResponse кодирует ответ для очереди response.
func EncodeResponse(color, filename string) []byte {
	return []byte(Response{Color: color, Filename: filename}.String())
}

// ParseResponse разбирает "<color>/<filename>" по первому разделителю.
// Проверку имени цвета по каталогу выполняет вызывающий.
func ParseResponse(body []byte) (Response, error) {
	if !utf8.Valid(body) {
		return Response{}, fmt.Errorf("%w: response is not valid UTF-8", ErrMalformedMessage)
	}

	color, filename, ok := strings.Cut(string(body), Separator)
	if !ok {
		return Response{}, fmt.Errorf("%w: missing %q in %q", ErrMalformedMessage, Separator, body)
	}
	if color == "" {
		return Response{}, fmt.Errorf("%w: empty color in %q", ErrMalformedMessage, body)
	}
	if err := ValidateFilename(filename); err != nil {
		return Response{}, err
	}

	return Response{Color: color, Filename: filename}, nil
}

// ValidateFilename проверяет, что имя — один элемент пути внутри
// папки с изображениями: без разделителей, не "." и не "..".
func ValidateFilename(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty filename", ErrMalformedMessage)
	case name == "." || name == "..":
		return fmt.Errorf("%w: invalid filename %q", ErrMalformedMessage, name)
	case strings.ContainsAny(name, "/\x00"), strings.ContainsRune(name, os.PathSeparator):
		return fmt.Errorf("%w: filename %q must not contain path separators", ErrMalformedMessage, name)
	}
	return nil
}
