package engraving

import (
	"strings"
	"testing"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDesign(t *testing.T) *Design {
	t.Helper()
	design, err := NewDesign(uuid.New(), uuid.New(), "PROPERTY OF MIKE", "CREW 7", FontBlock)
	require.NoError(t, err)
	return design
}

func TestNewDesign(t *testing.T) {
	t.Run("creates design with valid inputs", func(t *testing.T) {
		design := newTestDesign(t)

		assert.Equal(t, "PROPERTY OF MIKE", design.Line1)
		assert.Equal(t, "CREW 7", design.Line2)
		assert.Equal(t, FontBlock, design.Font)
		assert.Equal(t, DesignStatusDraft, design.Status)
		assert.Empty(t, design.PreviewKey)
	})

	t.Run("publishes DesignCreated event", func(t *testing.T) {
		design := newTestDesign(t)

		events := design.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeDesignCreated, events[0].EventType())
	})

	t.Run("allows empty second line", func(t *testing.T) {
		design, err := NewDesign(uuid.New(), uuid.New(), "SITE CREW", "", FontScript)
		require.NoError(t, err)
		assert.Empty(t, design.Line2)
	})

	t.Run("fails with empty first line", func(t *testing.T) {
		_, err := NewDesign(uuid.New(), uuid.New(), "", "", FontBlock)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with line over 20 characters", func(t *testing.T) {
		_, err := NewDesign(uuid.New(), uuid.New(), strings.Repeat("A", 21), "", FontBlock)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 20")
	})

	t.Run("fails with non-printable characters", func(t *testing.T) {
		_, err := NewDesign(uuid.New(), uuid.New(), "LINE\tONE", "", FontBlock)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "printable ASCII")
	})

	t.Run("fails with non-ASCII characters", func(t *testing.T) {
		_, err := NewDesign(uuid.New(), uuid.New(), "BATERÍA", "", FontBlock)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "printable ASCII")
	})

	t.Run("fails with unknown font", func(t *testing.T) {
		_, err := NewDesign(uuid.New(), uuid.New(), "SITE CREW", "", Font("comic-sans"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown engraving font")
	})
}

func TestDesignModeration(t *testing.T) {
	t.Run("approve moves draft to approved", func(t *testing.T) {
		design := newTestDesign(t)
		design.ClearDomainEvents()

		require.NoError(t, design.Approve())
		assert.Equal(t, DesignStatusApproved, design.Status)
		assert.True(t, design.IsApproved())

		events := design.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeDesignApproved, events[0].EventType())
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		design := newTestDesign(t)
		require.NoError(t, design.Approve())
		require.Error(t, design.Approve())
	})

	t.Run("reject stores moderation note", func(t *testing.T) {
		design := newTestDesign(t)

		require.NoError(t, design.Reject("profanity"))
		assert.Equal(t, DesignStatusRejected, design.Status)
		assert.Equal(t, "profanity", design.RejectNote)
	})

	t.Run("editing a rejected design returns it to draft", func(t *testing.T) {
		design := newTestDesign(t)
		require.NoError(t, design.Reject("profanity"))

		require.NoError(t, design.UpdateText("SITE 42", "", FontStencil))
		assert.Equal(t, DesignStatusDraft, design.Status)
		assert.Empty(t, design.RejectNote)
		assert.Empty(t, design.PreviewKey)
	})

	t.Run("approved design cannot be edited", func(t *testing.T) {
		design := newTestDesign(t)
		require.NoError(t, design.Approve())

		err := design.UpdateText("SITE 42", "", FontBlock)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "draft or rejected")
	})
}

func TestDesignQueueing(t *testing.T) {
	t.Run("queues approved design", func(t *testing.T) {
		design := newTestDesign(t)
		require.NoError(t, design.Approve())

		require.NoError(t, design.Queue())
		assert.Equal(t, DesignStatusQueued, design.Status)
	})

	t.Run("cannot queue a draft design", func(t *testing.T) {
		design := newTestDesign(t)
		err := design.Queue()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "approved designs")
	})
}

func TestAttachPreview(t *testing.T) {
	design := newTestDesign(t)

	require.NoError(t, design.AttachPreview("previews/2026/08/abc123.png"))
	assert.Equal(t, "previews/2026/08/abc123.png", design.PreviewKey)

	require.Error(t, design.AttachPreview(""))

	t.Run("allowed on approved design", func(t *testing.T) {
		design := newTestDesign(t)
		require.NoError(t, design.Approve())

		require.NoError(t, design.AttachPreview("previews/2026/08/def456.png"))
		assert.Equal(t, "previews/2026/08/def456.png", design.PreviewKey)
	})

	t.Run("queued design keeps its preview", func(t *testing.T) {
		design := newTestDesign(t)
		require.NoError(t, design.AttachPreview("previews/2026/08/abc123.png"))
		require.NoError(t, design.Approve())
		require.NoError(t, design.Queue())

		err := design.AttachPreview("previews/2026/08/replacement.png")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DESIGN_LOCKED", domainErr.Code)
		assert.Equal(t, "previews/2026/08/abc123.png", design.PreviewKey)
	})

	t.Run("rejected design cannot attach", func(t *testing.T) {
		design := newTestDesign(t)
		require.NoError(t, design.Reject("off-brand text"))

		err := design.AttachPreview("previews/2026/08/abc123.png")
		require.Error(t, err)
	})
}
