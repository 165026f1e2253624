package export_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/pedigree/pkg/export"
)

func ExampleFilename() {
	t := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	fmt.Println(export.Filename(export.FormatPNG, t))
	// Output:
	// pedigree-chart-2024-03-09T14-05-00.000Z.png
}
