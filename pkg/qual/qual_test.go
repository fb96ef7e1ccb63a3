package qual

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"varpipe/pkg/system"
	"varpipe/pkg/test"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageQual(t *testing.T) {
	system.AppFs = afero.NewMemMapFs()
	test.CreateTestFile(t, system.AppFs, "/data/sampleA.vcf", test.SampleVCF())

	avg, err := AverageQual("/data/sampleA.vcf")
	require.NoError(t, err)
	assert.InDelta(t, (50.0+30.5+221.999)/3, avg, 1e-9)
}

func TestAverage_EdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{name: "empty file", content: "", want: 0},
		{name: "only comments", content: "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\n", want: 0},
		{name: "comment that looks like a record", content: "#5\t1\t.\tA\tG\t900\n1\t2\t.\tA\tG\t10\n", want: 10},
		{name: "no trailing newline", content: "1\t2\t.\tA\tG\t7\n1\t3\t.\tA\tG\t9", want: 8},
		{name: "crlf line endings", content: "1\t2\t.\tA\tG\t4\r\n1\t3\t.\tA\tG\t6\r\n", want: 5},
		{name: "cr line endings", content: "#CHROM\r1\t2\t.\tA\tG\t10\r1\t3\t.\tA\tG\t20\r", want: 15},
		{name: "surrounding whitespace", content: "  1\t2\t.\tA\tG\t8 \t\n", want: 8},
		{name: "qual is the last column", content: "1\t2\t.\tA\tG\t3.5\n", want: 3.5},
		{name: "scientific notation", content: "1\t2\t.\tA\tG\t1e2\n", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, err := Average(strings.NewReader(tt.content), 5, "#")
			require.NoError(t, err)
			assert.InDelta(t, tt.want, avg, 1e-9)
		})
	}
}

func TestAverage_ZeroRecordsIsExactlyZero(t *testing.T) {
	avg, err := Average(strings.NewReader("##only header\n"), 5, "#")
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
}

func TestAverage_OrderIndependent(t *testing.T) {
	records := []string{
		"chr1\t100\t.\tA\tG\t12.5\t.\t.",
		"chr1\t200\t.\tC\tT\t40\t.\t.",
		"chr2\t300\t.\tG\tA\t3\t.\t.",
		"chr3\t400\t.\tT\tC\t99.25\t.\t.",
	}
	want := (12.5 + 40 + 3 + 99.25) / 4

	orders := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2}}
	for _, order := range orders {
		var sb strings.Builder
		sb.WriteString("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n")
		for _, i := range order {
			sb.WriteString(records[i])
			sb.WriteString("\n")
		}
		avg, err := Average(strings.NewReader(sb.String()), 5, "#")
		require.NoError(t, err)
		assert.InDelta(t, want, avg, 1e-9, "order %v", order)
	}
}

func TestAverage_CustomFieldAndPrefix(t *testing.T) {
	content := "// header\n1\t2\t3\n4\t5\t6\n"

	avg, err := Average(strings.NewReader(content), 1, "//")
	require.NoError(t, err)
	assert.InDelta(t, 3.5, avg, 1e-9)
}

func TestAverage_LongLines(t *testing.T) {
	info := strings.Repeat("X", 256*1024)
	content := "1\t2\t.\tA\tG\t20\t.\t" + info + "\n1\t3\t.\tA\tG\t40\t.\t" + info + "\n"

	avg, err := Average(strings.NewReader(content), 5, "#")
	require.NoError(t, err)
	assert.InDelta(t, 30, avg, 1e-9)
}

func TestAverage_Errors(t *testing.T) {
	t.Run("non-numeric field is fatal", func(t *testing.T) {
		content := "#header\n1\t2\t.\tA\tG\t10\n1\t3\t.\tA\tG\t.\n1\t4\t.\tA\tG\t30\n"

		_, err := Average(strings.NewReader(content), 5, "#")
		require.Error(t, err)

		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, 3, perr.Line)
		assert.Equal(t, ".", perr.Value)
		assert.Equal(t, `line 3: cannot parse "." as a number`, err.Error())
	})

	t.Run("too few fields", func(t *testing.T) {
		content := "1\t2\t.\tA\tG\t10\n1\t2\tA\n"

		_, err := Average(strings.NewReader(content), 5, "#")
		require.Error(t, err)

		var merr *MalformedRecordError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, 2, merr.Line)
		assert.Equal(t, 3, merr.Fields)
		assert.Equal(t, 6, merr.Want)
	})

	t.Run("blank line is a malformed record", func(t *testing.T) {
		_, err := Average(strings.NewReader("1\t2\t.\tA\tG\t10\n\n"), 5, "#")

		var merr *MalformedRecordError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, 2, merr.Line)
	})

	t.Run("empty trailing qual is a malformed record", func(t *testing.T) {
		_, err := Average(strings.NewReader("1\t2\t.\tA\tG\t\n"), 5, "#")

		var merr *MalformedRecordError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, 1, merr.Line)
		assert.Equal(t, 5, merr.Fields)
	})

	t.Run("lines are counted across bare carriage returns", func(t *testing.T) {
		_, err := Average(strings.NewReader("#h\r1\t2\t.\tA\tG\t10\rbad\n"), 5, "#")

		var merr *MalformedRecordError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, 3, merr.Line)
	})

	t.Run("empty comment prefix", func(t *testing.T) {
		_, err := Average(strings.NewReader("1\t2\t.\tA\tG\t10\n"), 5, "")
		assert.EqualError(t, err, "comment prefix cannot be empty")
	})

	t.Run("negative field index", func(t *testing.T) {
		_, err := Average(strings.NewReader(""), -1, "#")
		assert.EqualError(t, err, "field index must be non-negative, got -1")
	})
}

func TestAverageField_NotFound(t *testing.T) {
	system.AppFs = afero.NewMemMapFs()

	_, err := AverageField("/data/missing.vcf", 5, "#")
	require.Error(t, err)

	var nferr *NotFoundError
	require.ErrorAs(t, err, &nferr)
	assert.Equal(t, "/data/missing.vcf", nferr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "variant file /data/missing.vcf not found", err.Error())
}

func TestAverageField_Gzip(t *testing.T) {
	system.AppFs = afero.NewMemMapFs()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(test.SampleVCF()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, afero.WriteFile(system.AppFs, "/data/sampleA.vcf.gz", buf.Bytes(), 0644))

	avg, err := AverageField("/data/sampleA.vcf.gz", 5, "#")
	require.NoError(t, err)
	assert.InDelta(t, (50.0+30.5+221.999)/3, avg, 1e-9)
}

func TestAverageField_CorruptGzip(t *testing.T) {
	system.AppFs = afero.NewMemMapFs()
	test.CreateTestFile(t, system.AppFs, "/data/sampleA.vcf.gz", "not gzip at all")

	_, err := AverageField("/data/sampleA.vcf.gz", 5, "#")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading /data/sampleA.vcf.gz")
}
