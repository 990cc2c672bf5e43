package schedule

import (
	"testing"

	"labreserve/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(id, start, end string) models.Booking {
	return models.Booking{
		IDs: []string{id}, ToolID: 1, Date: "2023-10-23",
		StartTime: start, EndTime: end,
	}
}

func TestCalculateEventLayout_Empty(t *testing.T) {
	assert.Empty(t, CalculateEventLayout(nil))
}

func TestCalculateEventLayout_SameStartDifferentLength(t *testing.T) {
	got := CalculateEventLayout([]models.Booking{
		booking("short", "09:00", "10:00"),
		booking("long", "09:00", "12:00"),
	})
	require.Len(t, got, 2)

	// The longer booking anchors column 0.
	assert.Equal(t, []string{"long"}, got[0].IDs)
	assert.Equal(t, 0, got[0].ColumnIndex)
	assert.Equal(t, []string{"short"}, got[1].IDs)
	assert.Equal(t, 1, got[1].ColumnIndex)

	for _, p := range got {
		assert.InDelta(t, 50.0, p.WidthPercent, 1e-9)
	}
	assert.InDelta(t, 0.0, got[0].LeftPercent, 1e-9)
	assert.InDelta(t, 50.0, got[1].LeftPercent, 1e-9)
}

func TestCalculateEventLayout_SequentialShareColumnZero(t *testing.T) {
	got := CalculateEventLayout([]models.Booking{
		booking("a", "08:00", "09:00"),
		booking("b", "09:00", "10:00"),
		booking("c", "10:00", "11:00"),
	})
	require.Len(t, got, 3)
	for _, p := range got {
		assert.Equal(t, 0, p.ColumnIndex)
		assert.InDelta(t, 100.0, p.WidthPercent, 1e-9)
		assert.InDelta(t, 0.0, p.LeftPercent, 1e-9)
	}
}

func TestCalculateEventLayout_UniformWidthAcrossDay(t *testing.T) {
	// One overlapping pair forces two columns for the whole day, so even
	// the lone afternoon booking renders at half width.
	got := CalculateEventLayout([]models.Booking{
		booking("a", "09:00", "11:00"),
		booking("b", "10:00", "12:00"),
		booking("lone", "14:00", "15:00"),
	})
	require.Len(t, got, 3)
	for _, p := range got {
		assert.InDelta(t, 50.0, p.WidthPercent, 1e-9)
	}
	// The lone booking reuses the freed first column.
	assert.Equal(t, 0, got[2].ColumnIndex)
	assert.Equal(t, []string{"lone"}, got[2].IDs)
}

func TestCalculateEventLayout_ThreeWayOverlap(t *testing.T) {
	got := CalculateEventLayout([]models.Booking{
		booking("a", "09:00", "12:00"),
		booking("b", "09:30", "11:00"),
		booking("c", "10:00", "10:30"),
	})
	require.Len(t, got, 3)
	assert.Equal(t, 0, got[0].ColumnIndex)
	assert.Equal(t, 1, got[1].ColumnIndex)
	assert.Equal(t, 2, got[2].ColumnIndex)
	for _, p := range got {
		assert.InDelta(t, 100.0/3, p.WidthPercent, 1e-9)
	}
}

func TestCalculateEventLayout_StableTieOrder(t *testing.T) {
	// Identical intervals keep their input order.
	got := CalculateEventLayout([]models.Booking{
		booking("first", "09:00", "10:00"),
		booking("second", "09:00", "10:00"),
	})
	require.Len(t, got, 2)
	assert.Equal(t, []string{"first"}, got[0].IDs)
	assert.Equal(t, 0, got[0].ColumnIndex)
	assert.Equal(t, []string{"second"}, got[1].IDs)
	assert.Equal(t, 1, got[1].ColumnIndex)
}
