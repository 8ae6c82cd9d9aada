package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
)

type taskJSON struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Name      string            `json:"name"`
	Status    domain.TaskStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// EncodeTasks serializes a task list for drivers that store snapshots as
// a single value. Placeholders are skipped, they never outlive the process.
func EncodeTasks(tasks []domain.Task) ([]byte, error) {
	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		if t.IsPlaceholder() {
			continue
		}
		out = append(out, taskJSON(t))
	}
	return json.Marshal(out)
}

func DecodeTasks(data []byte) ([]domain.Task, error) {
	var in []taskJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode task snapshot: %w", err)
	}

	out := make([]domain.Task, 0, len(in))
	for _, t := range in {
		out = append(out, domain.Task(t))
	}
	return out, nil
}
