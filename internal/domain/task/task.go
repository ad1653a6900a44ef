package task

import "encoding/json"

// Task is a unit of work carried by the queue. TaskType selects the stream.
type Task interface {
	TaskType() string
	TaskValue() ([]byte, error)
}

const (
	TypePersistCharacters = "PersistCharactersTask"
	TypePersistComics     = "PersistComicsTask"
)

// Types lists every task type a stream must exist for.
var Types = []string{TypePersistCharacters, TypePersistComics}

func DefaultTaskValue(task any) ([]byte, error) {
	return json.Marshal(task)
}

func UnmarshalTask[T Task](data []byte) (T, error) {
	var t T
	err := json.Unmarshal(data, &t)
	return t, err
}
