// atlas-loader 輸出 gorm 模型對應的 postgres schema，給 atlas 的 external_schema 使用
//
//	data "external_schema" "gorm" {
//	  program = ["go", "run", "./tools/atlas-loader"]
//	}
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"ariga.io/atlas-provider-gorm/gormschema"

	"q4auction/models"
)

func errExit(format string, args ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format = format + "\n"
	}
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

// run 把 DDL 寫到 w
func run(w io.Writer) error {
	stmts, err := gormschema.New("postgres").Load(
		&models.Auction{},
		&models.Bid{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to load gorm schema: %w", err)
	}
	if _, err := io.WriteString(w, stmts); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	return nil
}

func main() {
	if err := run(os.Stdout); err != nil {
		errExit("%v", err)
	}
}
