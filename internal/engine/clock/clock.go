// Package clock предоставляет источник текущего времени с возможностью
// подмены в тестах. Весь движок расчёта журнала и слотов получает "сейчас"
// только отсюда, а не из time.Now напрямую.
package clock

import "time"

// Clock описывает источник текущего времени.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System возвращает часы, основанные на time.Now.
func System() Clock { return systemClock{} }

// Fixed возвращает часы, всегда показывающие t. Используется в тестах.
func Fixed(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }
