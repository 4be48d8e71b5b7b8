// internal/utils/pagination.go
package utils

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/gin-gonic/gin"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

var ErrInvalidCursor = errors.New("invalid pagination key")

// GetPageLimit reads ?limit=, falling back to the default for junk and
// clamping to [1, MaxPageLimit].
func GetPageLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil {
		return DefaultPageLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// cursorValue is the JSON shape of one key attribute in a cursor.
type cursorValue struct {
	S *string `json:"S,omitempty"`
	N *string `json:"N,omitempty"`
	B []byte  `json:"B,omitempty"`
}

// EncodeCursor serialises a DynamoDB LastEvaluatedKey as URL-escaped JSON.
// A nil or empty key yields "".
func EncodeCursor(key map[string]*dynamodb.AttributeValue) (string, error) {
	if len(key) == 0 {
		return "", nil
	}

	out := make(map[string]cursorValue, len(key))
	for name, av := range key {
		switch {
		case av == nil:
			return "", errors.New("nil key attribute " + name)
		case av.S != nil:
			out[name] = cursorValue{S: av.S}
		case av.N != nil:
			out[name] = cursorValue{N: av.N}
		case av.B != nil:
			out[name] = cursorValue{B: av.B}
		default:
			return "", errors.New("unsupported key attribute type for " + name)
		}
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(raw)), nil
}

// DecodeCursor reverses EncodeCursor. Every failure maps to ErrInvalidCursor.
func DecodeCursor(cursor string) (map[string]*dynamodb.AttributeValue, error) {
	if cursor == "" {
		return nil, nil
	}

	raw, err := url.QueryUnescape(cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var in map[string]cursorValue
	if err := json.Unmarshal([]byte(raw), &in); err != nil || len(in) == 0 {
		return nil, ErrInvalidCursor
	}

	key := make(map[string]*dynamodb.AttributeValue, len(in))
	for name, v := range in {
		set := 0
		av := &dynamodb.AttributeValue{}
		if v.S != nil {
			set++
			av.S = aws.String(*v.S)
		}
		if v.N != nil {
			if _, err := strconv.ParseFloat(*v.N, 64); err != nil {
				return nil, ErrInvalidCursor
			}
			set++
			av.N = aws.String(*v.N)
		}
		if v.B != nil {
			set++
			av.B = v.B
		}
		if set != 1 || name == "" {
			return nil, ErrInvalidCursor
		}
		key[name] = av
	}

	return key, nil
}
