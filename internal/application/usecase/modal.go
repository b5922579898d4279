package usecase

import (
	"fmt"

	"github.com/jhoicas/sisvam-web/internal/domain"
)

// ModalMode operación del modal.
type ModalMode string

const (
	ModeCreate ModalMode = "create"
	ModeEdit   ModalMode = "edit"
	ModeDelete ModalMode = "delete"
)

// ModalState estado del modal de alta, edición o borrado.
type ModalState string

const (
	ModalClosed     ModalState = "closed"
	ModalOpen       ModalState = "open"
	ModalSubmitting ModalState = "submitting"
	ModalSuccess    ModalState = "success"
	ModalError      ModalState = "error"
)

// Modal máquina de estados:
// Closed -> Open(modo) -> Submitting -> Success -> Closed, o Error -> Open.
type Modal struct {
	state ModalState
	mode  ModalMode
	msg   string
}

// NewModal modal cerrado.
func NewModal() *Modal { return &Modal{state: ModalClosed} }

func (m *Modal) State() ModalState { return m.state }
func (m *Modal) Mode() ModalMode   { return m.mode }

// Message mensaje de éxito o error del último envío.
func (m *Modal) Message() string { return m.msg }

func (m *Modal) move(from ModalState, to ModalState) error {
	if m.state != from {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, m.state, to)
	}
	m.state = to
	return nil
}

// Open abre el modal en el modo indicado.
func (m *Modal) Open(mode ModalMode) error {
	if err := m.move(ModalClosed, ModalOpen); err != nil {
		return err
	}
	m.mode, m.msg = mode, ""
	return nil
}

// Submit inicia el envío; un segundo Submit en curso es inválido.
func (m *Modal) Submit() error { return m.move(ModalOpen, ModalSubmitting) }

// Succeed marca el envío como exitoso.
func (m *Modal) Succeed(msg string) error {
	if err := m.move(ModalSubmitting, ModalSuccess); err != nil {
		return err
	}
	m.msg = msg
	return nil
}

// Fail marca el envío como fallido; el formulario conserva los datos.
func (m *Modal) Fail(msg string) error {
	if err := m.move(ModalSubmitting, ModalError); err != nil {
		return err
	}
	m.msg = msg
	return nil
}

// Retry vuelve a abrir el formulario tras un error.
func (m *Modal) Retry() error { return m.move(ModalError, ModalOpen) }

// Close cierra el modal desde Open, Success o Error.
func (m *Modal) Close() error {
	switch m.state {
	case ModalOpen, ModalSuccess, ModalError:
		m.state, m.mode, m.msg = ModalClosed, "", ""
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, m.state, ModalClosed)
}
