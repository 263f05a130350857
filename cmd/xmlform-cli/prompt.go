package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var errCancelled = errors.New("selection cancelled")

// pickTemplates lists the .xml files in dir and asks which ones to render.
func pickTemplates(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	options, err := listTemplates(dir)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("no templates found in %s", dir)
	}

	var picked []string
	prompt := &survey.MultiSelect{
		Message:  "Templates to render",
		Options:  options,
		PageSize: 15,
	}
	if err := survey.AskOne(prompt, &picked, survey.WithValidator(survey.Required)); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return nil, errCancelled
		}
		return nil, err
	}

	out := make([]string, len(picked))
	for i, name := range picked {
		out[i] = filepath.Join(dir, name)
	}
	return out, nil
}

func listTemplates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read templates dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".xml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
