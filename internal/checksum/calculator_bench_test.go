package checksum

import (
	"strings"
	"testing"
)

func BenchmarkCalculator(b *testing.B) {
	calc := New()
	inputs := map[string][]byte{
		"label": []byte(strings.Repeat("  column Region\n    dataType: string\n", 200)),
		"brace": []byte(strings.Repeat("  column Region {\n    dataType: string\n  }\n", 200)),
		"query": []byte(strings.Repeat("  Source = Csv.Document(x) // load\n", 200)),
	}
	for name, content := range inputs {
		b.Run(name+"/raw", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				calc.CalculateRaw(content)
			}
		})
		b.Run(name+"/normalized", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				calc.CalculateNormalized(content)
			}
		})
	}
}
