package formula

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestExtractVariables_OrderedUnique(t *testing.T) {
	expr := "ROUNDUP(({Total_Length_Eaves} / 3000), 0) + {Roof_Area} + {Total_Length_Eaves}"
	got := ExtractVariables(expr)
	want := []string{"Total_Length_Eaves", "Roof_Area"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSubstitute_ExactBoundaryMatching(t *testing.T) {
	// One variable name being a prefix of another must never cause a
	// partial replacement.
	expr := "{Span} + {Span_Total}"
	vars := map[string]decimal.Decimal{
		"Span":       dec("2"),
		"Span_Total": dec("10"),
	}
	got := Substitute(expr, vars)
	if got != "2 + 10" {
		t.Fatalf("expected %q, got %q", "2 + 10", got)
	}
}

func TestSubstitute_SpacesInNames(t *testing.T) {
	got := Substitute("{Eaves Length} * 2", map[string]decimal.Decimal{"Eaves Length": dec("7.5")})
	if got != "7.5 * 2" {
		t.Fatalf("expected %q, got %q", "7.5 * 2", got)
	}
}

func TestValidateSyntax(t *testing.T) {
	cases := []struct {
		name    string
		expr    string
		wantErr error
	}{
		{"valid", "ROUNDUP({Eaves_Length}/3,0)", nil},
		{"valid nested", "MAX(CEILING({A}), MIN({B}, 10)) * 1.15", nil},
		{"empty", "", ErrEmptyExpression},
		{"blank", "   ", ErrEmptyExpression},
		{"unbalanced", "ROUNDUP(({X}/3,0)", ErrUnbalancedParens},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSyntax(tc.expr)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateSyntax_UnknownFunction(t *testing.T) {
	err := ValidateSyntax("SUMPRODUCT({A}, {B})")
	var unknownErr *UnknownFunctionError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownFunctionError, got %v", err)
	}
	if unknownErr.Name != "SUMPRODUCT" {
		t.Fatalf("expected SUMPRODUCT to be named, got %q", unknownErr.Name)
	}
}

func TestEvaluate_EavesBracing(t *testing.T) {
	// 7 / 3 = 2.33..., rounded up to 0 digits -> 3 lengths of bracing.
	res, err := Evaluate("ROUNDUP({Eaves_Length}/3,0)", map[string]decimal.Decimal{"Eaves_Length": dec("7")}, []string{"Eaves_Length"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Value.Equal(dec("3")) {
		t.Fatalf("expected 3, got %s", res.Value)
	}
}

func TestEvaluate_Functions(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"ROUNDUP(2.301, 1)", "2.4"},
		{"ROUNDDOWN(2.399, 1)", "2.3"},
		{"ROUND(2.35, 1)", "2.4"},
		{"ROUND(2.34, 1)", "2.3"},
		{"CEILING(2.01)", "3"},
		{"FLOOR(2.99)", "2"},
		{"ABS(0 - 4.5)", "4.5"},
		{"MAX(3, 7)", "7"},
		{"MIN(3, 7)", "3"},
		{"(1 + 2) * 4 - 6 / 3", "10"},
		{"-2 * -3", "6"},
		{"ROUNDUP(10 / 4, 0) * 20", "60"},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			res, err := Evaluate(tc.expr, nil, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !res.Value.Equal(dec(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, res.Value)
			}
		})
	}
}

func TestEvaluate_MissingRequiredVariable(t *testing.T) {
	_, err := Evaluate("ROUNDUP({Eaves_Length}/3,0)", nil, []string{"Eaves_Length"})
	var missingErr *MissingVariableError
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected MissingVariableError, got %v", err)
	}
	if len(missingErr.Names) != 1 || missingErr.Names[0] != "Eaves_Length" {
		t.Fatalf("expected Eaves_Length to be reported, got %v", missingErr.Names)
	}
}

func TestEvaluate_UnboundOptionalVariableWarns(t *testing.T) {
	res, err := Evaluate("{Roof_Area} + {Overhang}", map[string]decimal.Decimal{"Roof_Area": dec("120")}, []string{"Roof_Area"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Value.Equal(dec("120")) {
		t.Fatalf("expected 120, got %s", res.Value)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected a warning for the unbound optional variable, got %v", res.Warnings)
	}
}

func TestEvaluate_UnsafeConstructs(t *testing.T) {
	exprs := []string{
		"__import__('os')",
		"open(1)",
		"2 + foo",
		"1; 2",
		"{X}.any",
		"a[0]",
	}
	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			_, err := Evaluate(expr, map[string]decimal.Decimal{"X": dec("1")}, nil)
			if err == nil {
				t.Fatalf("expected %q to be rejected", expr)
			}
			var unsafeErr *UnsafeExpressionError
			var unknownErr *UnknownFunctionError
			if !errors.As(err, &unsafeErr) && !errors.As(err, &unknownErr) {
				t.Fatalf("expected unsafe/unknown failure for %q, got %v", expr, err)
			}
		})
	}
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	_, err := Evaluate("{A} / {B}", map[string]decimal.Decimal{"A": dec("1"), "B": dec("0")}, []string{"A", "B"})
	var arithErr *ArithmeticError
	if !errors.As(err, &arithErr) {
		t.Fatalf("expected ArithmeticError, got %v", err)
	}
}

func TestEvaluate_EmptyExpression(t *testing.T) {
	if _, err := Evaluate("", nil, nil); !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
}

func TestConstraints_Apply(t *testing.T) {
	min := dec("5")
	max := dec("10")
	cases := []struct {
		name        string
		constraints Constraints
		in          string
		want        string
	}{
		{"round to precision", Constraints{PrecisionDigits: 2}, "2.349", "2.35"},
		{"always round up", Constraints{PrecisionDigits: 2, AlwaysRoundUp: true}, "2.01", "3"},
		{"minimum clamps after rounding", Constraints{PrecisionDigits: 0, Minimum: &min}, "3.2", "5"},
		{"maximum clamps after rounding", Constraints{PrecisionDigits: 0, Maximum: &max}, "12.7", "10"},
		{"inside clamps untouched", Constraints{PrecisionDigits: 1, Minimum: &min, Maximum: &max}, "7.25", "7.3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.constraints.Apply(dec(tc.in))
			if !got.Equal(dec(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
