package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Flag entero 0/1 que usan los backends para estado, timbre y las banderas
// de contraseña. Solo el valor 1 cuenta como activo: 0, null, ausente o
// cualquier otro valor es inactivo.
type Flag int

const (
	FlagOff Flag = 0
	FlagOn  Flag = 1
)

// On indica si la bandera vale exactamente 1.
func (f Flag) On() bool { return f == FlagOn }

// FlagFrom convierte un booleano en 0/1.
func FlagFrom(b bool) Flag {
	if b {
		return FlagOn
	}
	return FlagOff
}

// UnmarshalJSON acepta números, booleanos, cadenas numéricas y null.
func (f *Flag) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	switch s {
	case "", "null", "false":
		*f = FlagOff
		return nil
	case "true":
		*f = FlagOn
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n != float64(int64(n)) {
		*f = FlagOff
		return nil
	}
	*f = Flag(int64(n))
	return nil
}

// ID identificador de los backends; llega como número o como cadena.
type ID string

// String implementa fmt.Stringer.
func (id ID) String() string { return string(id) }

// UnmarshalJSON acepta número, cadena o null.
func (id *ID) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*id = ID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emite número cuando el id es numérico.
func (id ID) MarshalJSON() ([]byte, error) {
	if id != "" {
		if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
			return []byte(id), nil
		}
	}
	return json.Marshal(string(id))
}
