package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors"

	"github.com/valyala/fastjson"

	"github.com/mcncl/jsonview/internal/errors"
	"github.com/mcncl/jsonview/internal/models"
)

// DefaultMaxDepth is the nesting depth bound applied when no explicit
// limit is configured. It is deliberately below fastjson's own hard
// limit of 300 so that depth failures always carry our diagnostic.
const DefaultMaxDepth = 200

// Parser turns document text into a models.Document. Parsing is a
// two-stage pipeline: a strict JSON parse first, then a retry with the
// lenient grammar, which forgives exactly four deviations: unquoted
// identifier-like keys, single-quoted strings, trailing commas, and
// comments. Anything else still fails: the lenient stage never invents
// values or closes brackets, so a successful parse always reflects the
// input. Only data values are ever produced; nothing is evaluated as
// code.
//
// A Parser is stateless between calls and safe to reuse; it is not safe
// for concurrent use because the underlying fastjson parser reuses its
// buffers.
type Parser struct {
	MaxDepth int

	fj fastjson.Parser
}

// New creates a Parser with the default depth bound.
func New() *Parser {
	return &Parser{MaxDepth: DefaultMaxDepth}
}

// ParseString parses a document from a string.
//
// Empty or whitespace-only input is the distinguished "no document" case:
// it yields an empty Document and no error, rather than a null document
// or a parse failure.
func (p *Parser) ParseString(text string) (models.Document, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.Document{}, nil
	}

	// Stage 1: strict JSON.
	if v, err := p.fj.Parse(trimmed); err == nil {
		root, convErr := p.convert(v, 0)
		if convErr != nil {
			return models.Document{}, convErr
		}
		return models.Document{Root: root}, nil
	}

	// Stage 2: the lenient grammar. The strict error is discarded in
	// favor of the lenient attempt's diagnostic, which is usually more
	// specific about what is actually wrong.
	root, err := parseLenient(trimmed, p.depthLimit())
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return models.Document{}, appErr
		}
		return models.Document{}, errors.NewParsingError(err.Error(), errors.ErrInvalidJSON)
	}
	return models.Document{Root: root}, nil
}

// depthLimit resolves the configured depth bound, falling back to the
// default for zero values.
func (p *Parser) depthLimit() int {
	if p.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

// Parse parses a document from an io.Reader.
func (p *Parser) Parse(reader io.Reader) (models.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read input", err)
	}
	return p.ParseString(string(data))
}

// ParseFile parses a document from a file path.
func (p *Parser) ParseFile(filePath string) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}
	return p.ParseString(string(data))
}

// convert copies a fastjson value into our own tree. fastjson reuses its
// buffers across Parse calls, so everything is copied out here. Object
// key order is preserved via Object.Visit; duplicate keys keep their
// first position with the last value winning.
func (p *Parser) convert(v *fastjson.Value, depth int) (*models.Value, error) {
	maxDepth := p.depthLimit()
	if depth > maxDepth {
		return nil, errors.NewParsingError(
			fmt.Sprintf("document nests deeper than %d levels", maxDepth),
			errors.ErrTooDeep,
		)
	}

	switch v.Type() {
	case fastjson.TypeNull:
		return models.NewNull(), nil
	case fastjson.TypeTrue:
		return models.NewBool(true), nil
	case fastjson.TypeFalse:
		return models.NewBool(false), nil
	case fastjson.TypeNumber:
		f, err := v.Float64()
		if err != nil {
			return nil, errors.NewParsingError("invalid number", err)
		}
		return models.NewNumber(f), nil
	case fastjson.TypeString:
		b, err := v.StringBytes()
		if err != nil {
			return nil, errors.NewParsingError("invalid string", err)
		}
		return models.NewString(string(b)), nil
	case fastjson.TypeArray:
		items, err := v.Array()
		if err != nil {
			return nil, errors.NewParsingError("invalid array", err)
		}
		arr := models.NewArray()
		for _, item := range items {
			child, err := p.convert(item, depth+1)
			if err != nil {
				return nil, err
			}
			arr.Append(child)
		}
		return arr, nil
	case fastjson.TypeObject:
		fjObj, err := v.Object()
		if err != nil {
			return nil, errors.NewParsingError("invalid object", err)
		}
		obj := models.NewObject()
		var visitErr error
		fjObj.Visit(func(key []byte, item *fastjson.Value) {
			if visitErr != nil {
				return
			}
			child, err := p.convert(item, depth+1)
			if err != nil {
				visitErr = err
				return
			}
			obj.Set(string(key), child)
		})
		if visitErr != nil {
			return nil, visitErr
		}
		return obj, nil
	default:
		return nil, errors.NewParsingError(fmt.Sprintf("unsupported value type %s", v.Type()), errors.ErrInvalidJSON)
	}
}

// ParseString parses using a default Parser.
func ParseString(text string) (models.Document, error) {
	return New().ParseString(text)
}

// Parse parses from a reader using a default Parser.
func Parse(reader io.Reader) (models.Document, error) {
	return New().Parse(reader)
}

// ParseFile parses a file using a default Parser.
func ParseFile(filePath string) (models.Document, error) {
	return New().ParseFile(filePath)
}
