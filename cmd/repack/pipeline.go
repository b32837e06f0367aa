package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/kcmvp/repack/apperr"
	"github.com/kcmvp/repack/schema/ast"
	"github.com/kcmvp/repack/schema/parser"
	"github.com/kcmvp/repack/schema/resolver"
	"github.com/kcmvp/repack/schema/validator"
	"github.com/spf13/afero"
)

// loadProgram reads every ".repack" schema file directly under dir, parses
// them, merges their top-level declarations into a single Program, then
// resolves and validates it. Declaration order across files follows
// lexicographic file name order, for deterministic object/enum ordering.
func loadProgram(fs afero.Fs, dir string) (*ast.Program, apperr.List) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, apperr.List{apperr.New(apperr.CannotReadFile, fmt.Sprintf("%s: %v", dir, err))}
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".repack" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	program := &ast.Program{}
	var errs apperr.List
	objectSeq, enumSeq := 0, 0

	for _, name := range files {
		path := filepath.Join(dir, name)
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			errs = append(errs, apperr.New(apperr.CannotReadFile, fmt.Sprintf("%s: %v", path, err)))
			continue
		}
		fileProgram, fileErrs := parser.Parse(string(data))
		errs = append(errs, fileErrs...)

		for _, obj := range fileProgram.Objects {
			program.Objects = append(program.Objects, obj.WithOrder(objectSeq))
			objectSeq++
		}
		for _, e := range fileProgram.Enums {
			program.Enums = append(program.Enums, e.WithOrder(enumSeq))
			enumSeq++
		}
		program.Outputs = append(program.Outputs, fileProgram.Outputs...)
		program.Snippets = append(program.Snippets, fileProgram.Snippets...)
		program.Configurations = append(program.Configurations, fileProgram.Configurations...)
		program.Instances = append(program.Instances, fileProgram.Instances...)
		program.Imports = append(program.Imports, fileProgram.Imports...)
	}

	if errs.HasErrors() {
		return program, errs
	}

	if resolveErrs := resolver.Resolve(program); resolveErrs.HasErrors() {
		errs = append(errs, resolveErrs...)
	}
	if validateErrs := validator.Validate(program); validateErrs.HasErrors() {
		errs = append(errs, validateErrs...)
	}
	return program, errs
}
