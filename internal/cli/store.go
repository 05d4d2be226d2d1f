package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"taskPlanner/internal/models/task"

	"gopkg.in/yaml.v3"
)

// TaskFile хранит задачи локально в JSON или YAML, формат выбирается по расширению
type TaskFile struct {
	Path string
}

func (f TaskFile) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(f.Path))
	return ext == ".yaml" || ext == ".yml"
}

// Load читает задачи; отсутствующий файл означает пустой список
func (f TaskFile) Load() ([]task.Task, error) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("чтение файла задач: %w", err)
	}

	tasks := []task.Task{}
	if len(strings.TrimSpace(string(content))) == 0 {
		return tasks, nil
	}

	if f.isYAML() {
		err = yaml.Unmarshal(content, &tasks)
	} else {
		err = json.Unmarshal(content, &tasks)
	}
	if err != nil {
		return nil, fmt.Errorf("разбор файла задач %s: %w", f.Path, err)
	}
	return tasks, nil
}

func (f TaskFile) Save(tasks []task.Task) error {
	var (
		content []byte
		err     error
	)
	if f.isYAML() {
		content, err = yaml.Marshal(tasks)
	} else {
		content, err = json.MarshalIndent(tasks, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("сериализация задач: %w", err)
	}

	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("создание каталога: %w", err)
		}
	}

	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("запись файла задач: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("запись файла задач: %w", err)
	}
	return nil
}
