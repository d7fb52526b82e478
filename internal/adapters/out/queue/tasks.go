package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"freight/internal/core/domain/model/load"
)

// TaskRecordLoadEvent appends a committed load event to the load history.
const TaskRecordLoadEvent = "load:record_event"

// NewRecordLoadEventTask carries e as its JSON payload.
func NewRecordLoadEventTask(e load.Event) (*asynq.Task, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRecordLoadEvent, body), nil
}

// ParseLoadEvent decodes the payload of a TaskRecordLoadEvent task.
func ParseLoadEvent(task *asynq.Task) (load.Event, error) {
	var e load.Event
	err := json.Unmarshal(task.Payload(), &e)
	return e, err
}
