package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/harrisonrobin/dayplan/pkg/model"
)

// DecodeTasks reads tasks from r, either as one JSON array or as a stream of
// JSON task objects (one export per line).
func DecodeTasks(r io.Reader) ([]model.Task, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return []model.Task{}, nil
	}
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(br)
	if first == '[' {
		var tasks []model.Task
		if err := decoder.Decode(&tasks); err != nil {
			return nil, fmt.Errorf("failed to decode task array: %w", err)
		}
		return normalize(tasks), nil
	}

	var tasks []model.Task
	for {
		var task model.Task
		if err := decoder.Decode(&task); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		tasks = append(tasks, task)
	}
	return normalize(tasks), nil
}

// EncodeTasks writes tasks as an indented JSON array.
func EncodeTasks(w io.Writer, tasks []model.Task) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(normalize(tasks))
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
