package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/sisvam-web/internal/application/dto"
)

// Summarizer recurso que sabe resumir sus totales.
type Summarizer interface {
	Summary(ctx context.Context) (dto.Resumen, error)
}

// HomeUseCase totales por recurso para la página de inicio.
type HomeUseCase struct {
	sources []Summarizer
}

// NewHomeUseCase construye el caso de uso; el orden de sources es el de la página.
func NewHomeUseCase(sources ...Summarizer) *HomeUseCase {
	return &HomeUseCase{sources: sources}
}

// Resumen pide los totales de todos los recursos en paralelo. Un error de
// sesión cancela el resto y se devuelve; los demás fallos quedan en Resumen.Error.
func (uc *HomeUseCase) Resumen(ctx context.Context) ([]dto.Resumen, error) {
	out := make([]dto.Resumen, len(uc.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range uc.sources {
		i, src := i, src
		g.Go(func() error {
			r, err := src.Summary(gctx)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
