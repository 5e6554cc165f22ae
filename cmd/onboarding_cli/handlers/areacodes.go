package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/justclara/onboarding_services/internal/onboarding_service/areacode"
	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

// AreaCodes prints the purchase order for code and the region it belongs to.
func AreaCodes(code string, out io.Writer) error {
	code = strings.TrimSpace(code)
	if !domain.IsAreaCode(code) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAreaCode, code)
	}

	r := areacode.NewResolver()
	if m, ok := r.Lookup(code); ok {
		fmt.Fprintf(out, "Region: %s/%s\n", m.Country, m.Region)
	} else {
		fmt.Fprintf(out, "Region: unknown, using the generic list %s\n", strings.Join(r.Fallback(), ", "))
	}
	fmt.Fprintf(out, "Candidates: %s\n", strings.Join(r.Candidates(code), ", "))
	return nil
}
