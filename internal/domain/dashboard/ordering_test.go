package dashboard

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWidgets(titles ...string) []Widget {
	orgID := uuid.New()
	widgets := make([]Widget, len(titles))
	for i, title := range titles {
		widgets[i] = *NewWidget(orgID, title, WidgetKindChart, "Programs", WidgetSizeMedium, i)
	}
	return widgets
}

func titlesOf(widgets []Widget) []string {
	titles := make([]string, len(widgets))
	for i, w := range widgets {
		titles[i] = w.Title
	}
	return titles
}

func TestMoveWidget_ForwardMove(t *testing.T) {
	widgets := testWidgets("A", "B", "C")

	ordered, moved := MoveWidget(widgets, widgets[0].ID, widgets[2].ID)

	require.True(t, moved)
	assert.Equal(t, []string{"B", "C", "A"}, titlesOf(ordered))
	for i, w := range ordered {
		assert.Equal(t, i, w.Position)
	}
}

func TestMoveWidget_BackwardMove(t *testing.T) {
	widgets := testWidgets("A", "B", "C")

	ordered, moved := MoveWidget(widgets, widgets[2].ID, widgets[0].ID)

	require.True(t, moved)
	assert.Equal(t, []string{"C", "A", "B"}, titlesOf(ordered))
}

func TestMoveWidget_SameSourceAndTargetIsNoOp(t *testing.T) {
	widgets := testWidgets("A", "B", "C")

	ordered, moved := MoveWidget(widgets, widgets[1].ID, widgets[1].ID)

	assert.False(t, moved)
	assert.Equal(t, []string{"A", "B", "C"}, titlesOf(ordered))
}

func TestMoveWidget_UnknownWidgetIsNoOp(t *testing.T) {
	widgets := testWidgets("A", "B", "C")

	_, moved := MoveWidget(widgets, uuid.New(), widgets[0].ID)
	assert.False(t, moved)

	_, moved = MoveWidget(widgets, widgets[0].ID, uuid.New())
	assert.False(t, moved)
}

func TestMoveWidget_DoesNotMutateInput(t *testing.T) {
	widgets := testWidgets("A", "B", "C")

	_, moved := MoveWidget(widgets, widgets[0].ID, widgets[2].ID)

	require.True(t, moved)
	assert.Equal(t, []string{"A", "B", "C"}, titlesOf(widgets))
}

func TestWidget_Resize(t *testing.T) {
	w := NewWidget(uuid.New(), "Budget", WidgetKindChart, "Financials", WidgetSizeSmall, 0)

	require.NoError(t, w.Resize(WidgetSizeLarge))
	assert.Equal(t, WidgetSizeLarge, w.Size)

	err := w.Resize(WidgetSize("huge"))
	assert.ErrorIs(t, err, ErrInvalidWidgetSize)
	assert.Equal(t, WidgetSizeLarge, w.Size)
}
