// Package sequence ведёт нумерацию операций заказа шагом 10.
package sequence

import (
	"errors"
	"fmt"
	"sort"

	"printshop/internal/storage"
)

const Step = 10

type Position string

const (
	PositionStart Position = "start"
	PositionAfter Position = "after"
	PositionEnd   Position = "end"
)

var (
	ErrUnknownPosition = errors.New("unknown insertion position")
	ErrAnchorNotFound  = errors.New("anchor operation not found")
	ErrNotOrdered      = errors.New("sequence numbers are not strictly increasing")
)

type InsertionPoint struct {
	Position Position `json:"position"`
	AfterID  int64    `json:"after_id,omitempty"`
}

// Update - новое значение sequence для существующей строки.
type Update = storage.SequenceUpdate

type InsertResult struct {
	Ops         []storage.ConvertedOperation `json:"ops"`
	Updates     []Update                     `json:"updates"`
	NewSequence int                          `json:"new_sequence"`
}

// Insert вставляет newOp в позицию point и перенумеровывает весь список
// заново: 10, 20, 30... Входной список не меняется.
func Insert(ops []storage.ConvertedOperation, point InsertionPoint, newOp storage.ConvertedOperation) (InsertResult, error) {
	ordered := sorted(ops)

	idx, err := insertionIndex(ordered, point)
	if err != nil {
		return InsertResult{}, err
	}

	list := make([]storage.ConvertedOperation, 0, len(ordered)+1)
	list = append(list, ordered[:idx]...)
	list = append(list, newOp)
	list = append(list, ordered[idx:]...)

	res := InsertResult{Ops: list, Updates: []Update{}}
	for i := range list {
		seq := (i + 1) * Step
		if i == idx {
			res.NewSequence = seq
			list[i].Sequence = seq
			continue
		}
		if list[i].Sequence != seq {
			res.Updates = append(res.Updates, Update{ID: list[i].ID, Sequence: seq})
		}
		list[i].Sequence = seq
	}

	return res, nil
}

// Delete убирает операцию без перенумерации: пропуски в нумерации допустимы.
func Delete(ops []storage.ConvertedOperation, id int64) ([]storage.ConvertedOperation, error) {
	ordered := sorted(ops)

	for i, o := range ordered {
		if o.ID == id {
			return append(ordered[:i], ordered[i+1:]...), nil
		}
	}

	return nil, fmt.Errorf("%w: id %d", storage.ErrOperationNotFound, id)
}

// Renumber приводит список к каноническому виду 10, 20, 30...
// Повторный вызов ничего не меняет, дубли и беспорядок после сбоя исправляются.
func Renumber(ops []storage.ConvertedOperation) ([]storage.ConvertedOperation, []Update) {
	list := sorted(ops)
	updates := []Update{}

	for i := range list {
		seq := (i + 1) * Step
		if list[i].Sequence != seq {
			updates = append(updates, Update{ID: list[i].ID, Sequence: seq})
			list[i].Sequence = seq
		}
	}

	return list, updates
}

// Verify проверяет, что номера строго возрастают в порядке списка.
func Verify(ops []storage.ConvertedOperation) error {
	for i := 1; i < len(ops); i++ {
		if ops[i].Sequence <= ops[i-1].Sequence {
			return fmt.Errorf("%w: %d after %d (id %d)", ErrNotOrdered, ops[i].Sequence, ops[i-1].Sequence, ops[i].ID)
		}
	}
	return nil
}

func insertionIndex(ordered []storage.ConvertedOperation, point InsertionPoint) (int, error) {
	switch point.Position {
	case PositionStart:
		return 0, nil
	case PositionEnd, "":
		return len(ordered), nil
	case PositionAfter:
		for i, o := range ordered {
			if o.ID == point.AfterID {
				return i + 1, nil
			}
		}
		return 0, fmt.Errorf("%w: id %d", ErrAnchorNotFound, point.AfterID)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPosition, point.Position)
	}
}

// sorted - копия по (sequence, id), чтобы дубли после сбоя шли стабильно.
func sorted(ops []storage.ConvertedOperation) []storage.ConvertedOperation {
	out := make([]storage.ConvertedOperation, len(ops))
	copy(out, ops)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].ID < out[j].ID
	})

	return out
}
