package database

import (
	"go/parser"
	"go/token"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		want    string
		wantErr bool
	}{
		{"default mysql", "", "mysql", false},
		{"mysql", "mysql", "mysql", false},
		{"postgres", "postgres", "postgres", false},
		{"sqlite", "sqlite", "sqlite", false},
		{"unknown", "oracle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Dialector(&config.DatabaseConfig{Driver: tt.driver, SQLitePath: ":memory:"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestNewTestDB_Migrates(t *testing.T) {
	db := NewTestDB(t)
	for _, m := range model.AllModels() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

// fakeT 收集清理函数，模拟测试框架之外的调用方
type fakeT struct {
	cleanups []func()
	fatal    string
}

func (f *fakeT) Helper()      {}
func (f *fakeT) Name() string { return "fake/T" }
func (f *fakeT) Fatalf(format string, args ...any) {
	f.fatal = format
}
func (f *fakeT) Cleanup(fn func()) { f.cleanups = append(f.cleanups, fn) }

func TestNewTestDB_AcceptsMinimalT(t *testing.T) {
	ft := &fakeT{}
	db := NewTestDB(ft)
	require.Empty(t, ft.fatal)
	require.Len(t, ft.cleanups, 1)
	assert.True(t, db.Migrator().HasTable(&model.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	ft.cleanups[0]()
	assert.Error(t, sqlDB.Ping())
}

func TestPackageDoesNotImportTesting(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			assert.NotEqual(t, "testing", path, name)
		}
	}
}
