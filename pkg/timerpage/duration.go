// Package timerpage drives the controls of an online countdown timer page.
//
// The page is not ours and its markup may change, so every interaction is a
// chain of heuristics tried in order. Setting the duration first writes the
// fields through a page script and falls back to typing into inputs whose id
// or name looks like hours, minutes or seconds. Starting the timer walks an
// ordered list of StartStrategy values until one reports success.
package timerpage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gobwas/glob"

	"github.com/entrhq/pomo/pkg/browser"
)

// Duration is the value shown in the timer's hour/minute/second fields.
type Duration struct {
	Hours   int
	Minutes int
	Seconds int
}

// Minutes returns a Duration of m minutes.
func Minutes(m int) Duration {
	return Duration{Minutes: m}
}

// Method names how a duration was applied.
type Method string

const (
	// MethodScript wrote the fields from a page script
	MethodScript Method = "script"
	// MethodInputs typed into inputs matched by id/name
	MethodInputs Method = "inputs"
)

// setDurationScript receives [hours, minutes, seconds]. It returns the number
// of fields it found; a page-level setTimer function counts as one.
const setDurationScript = `([hours, minutes, seconds]) => {
	const find = (key) =>
		document.getElementById(key) || document.querySelector('input[name="' + key + '"]');
	const assign = (input, value) => {
		if (!input) {
			return 0;
		}
		input.value = String(value);
		input.dispatchEvent(new Event('change', { bubbles: true }));
		return 1;
	};

	let found = 0;
	found += assign(find('hours'), hours);
	found += assign(find('minutes'), minutes);
	found += assign(find('seconds'), seconds);

	if (typeof setTimer === 'function') {
		setTimer(hours, minutes, seconds);
		found++;
	}
	return found;
}`

// field pairs an id/name pattern with the part of the duration it receives.
type field struct {
	name    string
	pattern glob.Glob
	value   func(d Duration) int
}

// fields are checked in order; the first match decides what an input receives.
var fields = []field{
	{name: "hour", pattern: glob.MustCompile("*hour*"), value: func(d Duration) int { return d.Hours }},
	{name: "minute", pattern: glob.MustCompile("*minute*"), value: func(d Duration) int { return d.Minutes }},
	{name: "second", pattern: glob.MustCompile("*second*"), value: func(d Duration) int { return d.Seconds }},
}

// matchField classifies an input by its id and name attributes.
func matchField(id, name string) (field, bool) {
	id, name = strings.ToLower(id), strings.ToLower(name)
	for _, f := range fields {
		if f.pattern.Match(id) || f.pattern.Match(name) {
			return f, true
		}
	}
	return field{}, false
}

// SetDuration writes d into the page, trying the script first and the input
// fallback second. The returned error joins both failures.
func SetDuration(tab browser.Tab, d Duration) (Method, error) {
	_, scriptErr := tab.Evaluate(setDurationScript, []int{d.Hours, d.Minutes, d.Seconds})
	if scriptErr == nil {
		return MethodScript, nil
	}

	if err := fillInputs(tab, d); err != nil {
		return "", fmt.Errorf("failed to set timer duration: %w", errors.Join(scriptErr, err))
	}
	return MethodInputs, nil
}

// fillInputs types the duration into every input that looks like one of the
// timer fields. Matching no input at all is not an error. Inputs whose
// attributes cannot be read are skipped; their errors are returned only when
// no field was filled.
func fillInputs(tab browser.Tab, d Duration) error {
	inputs, err := tab.Inputs()
	if err != nil {
		return fmt.Errorf("listing inputs: %w", err)
	}

	var attrErrs []error
	filled := 0
	for i, in := range inputs {
		id, err := in.Attribute("id")
		if err != nil {
			attrErrs = append(attrErrs, fmt.Errorf("reading id of input %d: %w", i, err))
			continue
		}
		name, err := in.Attribute("name")
		if err != nil {
			attrErrs = append(attrErrs, fmt.Errorf("reading name of input %d: %w", i, err))
			continue
		}

		f, ok := matchField(id, name)
		if !ok {
			continue
		}
		if err := in.Fill(strconv.Itoa(f.value(d))); err != nil {
			return fmt.Errorf("filling %s field: %w", f.name, err)
		}
		filled++
	}

	if filled == 0 && len(attrErrs) > 0 {
		return errors.Join(attrErrs...)
	}
	return nil
}
