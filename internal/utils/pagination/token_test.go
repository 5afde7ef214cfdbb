package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	date := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(date, createdAt, "txn-1")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedCreatedAt, id, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, date, decodedDate, "Date should match after decode")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at time should match after decode")
	assert.Equal(t, "txn-1", id)

	// Zero time values
	zeroToken := EncodeToken(time.Time{}, time.Time{}, "z")
	decodedZeroDate, decodedZeroTime, _, err := DecodeToken(zeroToken)
	assert.NoError(t, err)
	assert.True(t, decodedZeroDate.IsZero())
	assert.True(t, decodedZeroTime.IsZero())

	now := time.Now().UTC()
	decodedNowDate, decodedNowTime, _, err := DecodeToken(EncodeToken(now, now, "n"))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNowDate), "Current date should match after decode")
	assert.True(t, now.Equal(decodedNowTime), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	_, _, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	missingID := base64.StdEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z"))
	_, _, _, err = DecodeToken(missingID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.StdEncoding.EncodeToString([]byte("notadate|2023-05-15T14:30:45.123456789Z|id"))
	_, _, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")

	badCreated := base64.StdEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|later|id"))
	_, _, _, err = DecodeToken(badCreated)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}
