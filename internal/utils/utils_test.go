package utils

import (
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driprats/storefront-admin/internal/models"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Gold Hoop Earrings":       "gold-hoop-earrings",
		"  Silver -- Chain!! ":     "silver-chain",
		"100% Cotton T-Shirt (XL)": "100-cotton-t-shirt-xl",
		"Café Crème":               "caf-cr-me",
		"!!!":                      "",
		"":                         "",
		"already-a-slug":           "already-a-slug",
		"__Leading and trailing__": "leading-and-trailing",
	}

	shape := regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)
	for in, want := range cases {
		got := Slugify(in)
		assert.Equal(t, want, got, in)
		assert.Regexp(t, shape, got)
		assert.Equal(t, got, Slugify(in), "slugify must be deterministic")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(7, "admin1@yourstore.com", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin1@yourstore.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "storefront-admin", claims.Issuer)
}

func TestJWTRejects(t *testing.T) {
	SetJWTSecret("test-secret")

	expired, err := GenerateJWT(1, "a@b.c", "admin", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateJWT(expired)
	assert.Error(t, err)

	_, err = ValidateJWT("")
	assert.Error(t, err)

	_, err = ValidateJWT("not.a.token")
	assert.Error(t, err)

	SetJWTSecret("other-secret")
	good, err := GenerateJWT(1, "a@b.c", "admin", time.Hour)
	require.NoError(t, err)
	SetJWTSecret("test-secret")
	_, err = ValidateJWT(good)
	assert.Error(t, err, "signature from a different secret")
}

func TestCursorRoundTrip(t *testing.T) {
	key := map[string]*dynamodb.AttributeValue{
		"OrderId":   {S: aws.String("ORD-2024-001")},
		"CreatedAt": {N: aws.String("1717000000")},
	}

	encoded, err := EncodeCursor(key)
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)

	decoded, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2024-001", aws.StringValue(decoded["OrderId"].S))
	assert.Equal(t, "1717000000", aws.StringValue(decoded["CreatedAt"].N))

	// once more through a query string, as the client sends it back
	values := url.Values{"lastKey": {encoded}}
	parsed, err := url.ParseQuery(values.Encode())
	require.NoError(t, err)
	decoded, err = DecodeCursor(parsed.Get("lastKey"))
	require.NoError(t, err)
	assert.Len(t, decoded, 2)

	empty, err := EncodeCursor(nil)
	require.NoError(t, err)
	assert.Equal(t, "", empty)
}

func TestDecodeCursorRejectsMalformed(t *testing.T) {
	for _, bad := range []string{
		"not-json",
		"%7B",
		"%zz",
		`{"OrderId":"plain"}`,
		`{"OrderId":{}}`,
		`{"OrderId":{"S":"a","N":"1"}}`,
		`{"Total":{"N":"abc"}}`,
		`{}`,
		`[]`,
	} {
		_, err := DecodeCursor(bad)
		assert.ErrorIs(t, err, ErrInvalidCursor, bad)
	}

	key, err := DecodeCursor("")
	assert.NoError(t, err)
	assert.Nil(t, key)
}

func TestGetPageLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for query, want := range map[string]int{
		"":            DefaultPageLimit,
		"?limit=20":   20,
		"?limit=abc":  DefaultPageLimit,
		"?limit=0":    1,
		"?limit=5000": MaxPageLimit,
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/api/orders"+query, nil)
		assert.Equal(t, want, GetPageLimit(c), query)
	}
}

func TestValidateProductInput(t *testing.T) {
	valid := models.ProductInput{Name: "Scarf", Price: 10, ImageUrls: []string{"scarf/1"}}
	assert.NoError(t, ValidateStruct(&valid))

	bad := models.ProductInput{Name: "   ", Price: 0, ImageUrls: nil}
	errs := GetValidationErrors(ValidateStruct(&bad))
	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, "notblank", fields["name"])
	assert.Equal(t, "gt", fields["price"])
	assert.Equal(t, "min", fields["imageurls"])

	negative := -1.0
	valid.DiscountedPrice = &negative
	assert.Error(t, ValidateStruct(&valid))
}
