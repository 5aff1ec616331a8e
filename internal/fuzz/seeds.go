package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
	maxFuzzInput = 16 << 10
)

var snippetSeeds = []string{
	"",
	"class A {}",
	"class A { int x; void f(int y) { int z = x + y; } }",
	"class A { void f() { for (int i = 0; i < 3; i++) { int i2 = i; } } }",
	"class A { void f() { switch (1) { case 1: int k = 2; break; default: } } }",
	"class A { Runnable r = () -> { int q = 0; }; }",
	"interface I { void m(); } enum E { ONE, TWO; int v; }",
	"record P(int x, int y) { int sum() { return x + y; } }",
	"class A { void f( { int x = ; }",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range snippetSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "javafront", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.java файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".java" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
