package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecurringTaskIDRoundTrip(t *testing.T) {
	actionID := primitive.NewObjectID()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	id := RecurringTaskID(actionID, date)
	assert.Equal(t, "recurring-"+actionID.Hex()+"-2024-03-15", id)

	kind, parsedID, parsedDate, err := ParseTaskID(id)
	require.NoError(t, err)
	assert.Equal(t, TaskTypeRecurring, kind)
	assert.Equal(t, actionID, parsedID)
	assert.Equal(t, date, parsedDate)
}

func TestOneTimeTaskIDRoundTrip(t *testing.T) {
	actionID := primitive.NewObjectID()

	id := OneTimeTaskID(actionID)
	assert.Equal(t, "onetime-"+actionID.Hex(), id)

	kind, parsedID, parsedDate, err := ParseTaskID(id)
	require.NoError(t, err)
	assert.Equal(t, TaskTypeOneTime, kind)
	assert.Equal(t, actionID, parsedID)
	assert.True(t, parsedDate.IsZero())
}

func TestParseTaskIDRejectsMalformedIDs(t *testing.T) {
	cases := []string{
		"",
		"recurring-",
		"recurring-notanid-2024-03-15",
		"recurring-" + primitive.NewObjectID().Hex(),
		"recurring-" + primitive.NewObjectID().Hex() + "-15/03/2024",
		"onetime-notanid",
		"weekly-" + primitive.NewObjectID().Hex(),
	}
	for _, raw := range cases {
		_, _, _, err := ParseTaskID(raw)
		assert.Error(t, err, "id %q", raw)
	}
}
