package azdo

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// TestStep is one manual test step: the action the tester performs and the
// result they should observe.
type TestStep struct {
	Action         string `json:"action"`
	ExpectedResult string `json:"expectedResult"`
}

// Azure DevOps stores manual test steps in the Microsoft.VSTS.TCM.Steps
// field as an XML document:
//
//	<steps id="0" last="2">
//	  <step id="1" type="ActionStep">
//	    <parameterizedString isformatted="true">action</parameterizedString>
//	    <parameterizedString isformatted="true">expected result</parameterizedString>
//	  </step>
//	  ...
//	</steps>
//
// Step ids are 1-based and sequential; the last attribute on the root
// carries the step count.

type stepsDocument struct {
	XMLName xml.Name      `xml:"steps"`
	ID      string        `xml:"id,attr"`
	Last    string        `xml:"last,attr"`
	Steps   []stepElement `xml:"step"`
}

type stepElement struct {
	ID      string            `xml:"id,attr"`
	Type    string            `xml:"type,attr"`
	Strings []parameterString `xml:"parameterizedString"`
}

type parameterString struct {
	IsFormatted string `xml:"isformatted,attr"`
	Text        string `xml:",chardata"`
}

// MarshalSteps renders steps in the Steps-field XML dialect. XML-special
// characters in the text are entity-escaped by the encoder. An empty slice
// yields the canonical empty document.
func MarshalSteps(steps []TestStep) (string, error) {
	doc := stepsDocument{ID: "0", Last: strconv.Itoa(len(steps))}
	for i, step := range steps {
		doc.Steps = append(doc.Steps, stepElement{
			ID:   strconv.Itoa(i + 1),
			Type: "ActionStep",
			Strings: []parameterString{
				{IsFormatted: "true", Text: step.Action},
				{IsFormatted: "true", Text: step.ExpectedResult},
			},
		})
	}
	out, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedStepXML, err)
	}
	return string(out), nil
}

// UnmarshalSteps parses the Steps-field XML dialect back into steps. An
// empty or blank document yields an empty slice. Anything that does not
// parse as a <steps> document, or any step missing one of its two
// parameterizedString children, is rejected with ErrMalformedStepXML.
func UnmarshalSteps(raw string) ([]TestStep, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []TestStep{}, nil
	}

	var doc stepsDocument
	if err := xml.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStepXML, err)
	}

	steps := make([]TestStep, 0, len(doc.Steps))
	for _, step := range doc.Steps {
		if len(step.Strings) < 2 {
			return nil, fmt.Errorf("%w: step %q has %d parameterizedString children, want 2",
				ErrMalformedStepXML, step.ID, len(step.Strings))
		}
		steps = append(steps, TestStep{
			Action:         step.Strings[0].Text,
			ExpectedResult: step.Strings[1].Text,
		})
	}
	return steps, nil
}
