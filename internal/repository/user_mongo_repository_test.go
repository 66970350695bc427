package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/spec-kit/auth-service/internal/domain"
)

func TestUserDocument_RoundTrip(t *testing.T) {
	id := bson.NewObjectID()
	created := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	user := &domain.User{ID: id.Hex(), Email: "a@x.com", PasswordHash: "hash", CreatedAt: created}

	doc := toUserDocument(user)
	assert.Equal(t, id, doc.ID)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var decoded userDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, user, fromUserDocument(decoded))
}

func TestToUserDocument_NewUserHasNoID(t *testing.T) {
	doc := toUserDocument(&domain.User{Email: "a@x.com"})
	assert.True(t, doc.ID.IsZero())

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	_, lookupErr := bson.Raw(raw).LookupErr("_id")
	assert.Error(t, lookupErr, "_id must be omitted so the store assigns it")
}
