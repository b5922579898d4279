package store

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/sisvam-web/internal/domain"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
)

func encodeSession(s *entity.Session) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("sesión nula")
	}
	rec := *s
	rec.Version = entity.SessionVersion
	return json.Marshal(rec)
}

// decodeSession valida el registro completo como una unidad.
func decodeSession(raw []byte) (*entity.Session, error) {
	var s entity.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSesionCorrupta, err)
	}
	if s.Version != entity.SessionVersion {
		return nil, fmt.Errorf("%w: versión %d", domain.ErrSesionCorrupta, s.Version)
	}
	return &s, nil
}
