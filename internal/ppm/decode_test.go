package ppm_test

import (
	"errors"
	"fmt"
	"ppmdiff/internal/ppm"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	type in struct {
		first string
	}

	type want struct {
		first *ppm.Image
	}

	tests := []struct {
		name            string
		in              in
		want            want
		wantErrorString string
	}{
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n2 1\n255\n255 0 0\n0 255 0\n",
			},
			want{
				&ppm.Image{
					Header: ppm.Header{Width: 2, Height: 1, MaxColor: 255},
					Pixels: []ppm.Pixel{{Red: 255, Green: 0, Blue: 0}, {Red: 0, Green: 255, Blue: 0}},
				},
			},
			"",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"  P3  \n 2   2 \n\t15\n1 2\n3 4 5 6 7\n8\n\n9 10 11 12",
			},
			want{
				&ppm.Image{
					Header: ppm.Header{Width: 2, Height: 2, MaxColor: 15},
					Pixels: []ppm.Pixel{
						{Red: 1, Green: 2, Blue: 3},
						{Red: 4, Green: 5, Blue: 6},
						{Red: 7, Green: 8, Blue: 9},
						{Red: 10, Green: 11, Blue: 12},
					},
				},
			},
			"",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n2 2\n255\n999 -1 0\n",
			},
			want{
				&ppm.Image{
					Header: ppm.Header{Width: 2, Height: 2, MaxColor: 255},
					Pixels: []ppm.Pixel{{Red: 999, Green: -1, Blue: 0}},
				},
			},
			"",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n1 1\n0",
			},
			want{
				&ppm.Image{
					Header: ppm.Header{Width: 1, Height: 1, MaxColor: 0},
					Pixels: []ppm.Pixel{},
				},
			},
			"",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P6\n2 1\n255\n255 0 0 0 255 0\n",
			},
			want{
				nil,
			},
			"invalid P3 header format",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3 2 1 255\n255 0 0\n0 255 0\n",
			},
			want{
				nil,
			},
			"invalid P3 header format",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n2\n255\n255 0 0\n",
			},
			want{
				nil,
			},
			"invalid P3 header format",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n2 1 1\n255\n255 0 0\n",
			},
			want{
				nil,
			},
			"invalid P3 header format",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\ntwo 1\n255\n255 0 0\n",
			},
			want{
				nil,
			},
			"invalid P3 header format",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n  \n255\n255 0 0\n",
			},
			want{
				nil,
			},
			"invalid P3 header format",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n2 1\nmax\n255 0 0\n",
			},
			want{
				nil,
			},
			"invalid P3 header format",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n0 1\n255\n",
			},
			want{
				nil,
			},
			"invalid P3 header format",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"",
			},
			want{
				nil,
			},
			"invalid P3 header format",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n2 2\n255\n1 2 3 4 5 6 7 8 9 10 11\n",
			},
			want{
				nil,
			},
			"partial pixel at <row=1, col=1>",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n2 2\n255\n1 2 3 4 5 6 7\n",
			},
			want{
				nil,
			},
			"partial pixel at <row=1, col=0>",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n1 3\n255\n1 2 3\n4 xx 6\n7 8 9\n",
			},
			want{
				nil,
			},
			"invalid pixel at <row=1, col=0>",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n3 1\n255\n1 2 3 4 5 6 7 8 9.5\n",
			},
			want{
				nil,
			},
			"invalid pixel at <row=0, col=2>",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n2 1\n255\n1 2 3 4 99999999999999999999 6\n",
			},
			want{
				nil,
			},
			"invalid pixel at <row=0, col=1>",
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				"P3\n2 1\n255\n1 2 x 4 5\n",
			},
			want{
				nil,
			},
			"invalid pixel at <row=0, col=0>",
		},
	}
	for _, tt := range tests {
		name := tt.name
		in := tt.in
		want := tt.want
		wantErrorString := tt.wantErrorString
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ppm.Decode(strings.NewReader(in.first))
			if diff := cmp.Diff(want.first, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}

			if err == nil {
				if diff := cmp.Diff(wantErrorString, ""); diff != "" {
					t.Errorf("(-want +got):\n%s", diff)
				}
			} else {
				if diff := cmp.Diff(wantErrorString, err.Error()); diff != "" {
					t.Errorf("(-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestDecodeErrorKinds(t *testing.T) {
	t.Run("InvalidHeaderFormat", func(t *testing.T) {
		_, err := ppm.Decode(strings.NewReader("P3\n4\n255\n"))

		var headerErr *ppm.InvalidHeaderFormatError
		if !errors.As(err, &headerErr) {
			t.Fatalf("Expected InvalidHeaderFormatError, got %v", err)
		}
		if headerErr.Line != 2 {
			t.Errorf("Expected Line to be 2, got %d", headerErr.Line)
		}
		if !errors.Is(err, ppm.ErrInvalidHeaderFormat) {
			t.Errorf("Expected errors.Is to match ErrInvalidHeaderFormat")
		}
	})

	t.Run("PartialPixel", func(t *testing.T) {
		_, err := ppm.Decode(strings.NewReader("P3\n3 1\n255\n1 2 3 4 5"))

		var partialErr *ppm.PartialPixelError
		if !errors.As(err, &partialErr) {
			t.Fatalf("Expected PartialPixelError, got %v", err)
		}
		if partialErr.Row != 0 || partialErr.Col != 1 {
			t.Errorf("Expected <row=0, col=1>, got <row=%d, col=%d>", partialErr.Row, partialErr.Col)
		}
	})

	t.Run("MalformedPixel", func(t *testing.T) {
		_, err := ppm.Decode(strings.NewReader("P3\n3 1\n255\n1 2 3 4 5 6 7 8 xx"))

		var malformedErr *ppm.MalformedPixelError
		if !errors.As(err, &malformedErr) {
			t.Fatalf("Expected MalformedPixelError, got %v", err)
		}
		if malformedErr.Row != 0 || malformedErr.Col != 2 {
			t.Errorf("Expected <row=0, col=2>, got <row=%d, col=%d>", malformedErr.Row, malformedErr.Col)
		}
		if malformedErr.Token != "xx" {
			t.Errorf("Expected Token to be xx, got %q", malformedErr.Token)
		}
		if errors.Is(err, ppm.ErrInvalidHeaderFormat) {
			t.Errorf("Expected MalformedPixelError not to match ErrInvalidHeaderFormat")
		}
	})
}

func TestPixelString(t *testing.T) {
	got := ppm.Pixel{Red: 255, Green: 0, Blue: 7}.String()
	if diff := cmp.Diff("(255, 0, 7)", got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
