package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"legis-pro/backend/internal/extract"
	"legis-pro/backend/internal/model"
	"legis-pro/backend/internal/session"
)

// Extractor turns an uploaded file into text.
type Extractor interface {
	Extract(ctx context.Context, name string, r io.Reader) (*extract.Document, error)
}

// DocumentService loads uploaded documents into a session's context.
type DocumentService struct {
	extractor Extractor
	now       func() time.Time
}

func NewDocumentService(extractor Extractor) *DocumentService {
	return &DocumentService{extractor: extractor, now: time.Now}
}

// Load extracts the text of the uploaded file and makes it the document
// context of sess, replacing any earlier one. On failure the previous context
// is kept.
func (s *DocumentService) Load(ctx context.Context, sess *session.Session, name string, r io.Reader) (*model.DocumentInfo, error) {
	var info *model.DocumentInfo
	err := sess.Exclusive(func(st *session.State) error {
		if err := requireAuth(*st); err != nil {
			return err
		}
		doc, err := s.extractor.Extract(ctx, name, r)
		if err != nil {
			slog.WarnContext(ctx, "Document extraction failed", "session_id", sess.ID, "document", name, "error", err)
			return err
		}
		if _, err := session.Apply(st, session.DocumentLoaded{Name: doc.Name, Text: doc.Text, At: s.now()}); err != nil {
			return err
		}
		info = st.DocumentInfo()
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Document loaded", "session_id", sess.ID, "document", info.Name, "characters", info.Characters)
	return info, nil
}
