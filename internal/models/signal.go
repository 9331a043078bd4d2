package models

import "strings"

// Domain is the routing key of an inline-button token.
type Domain string

const (
	DomainUnknown   Domain = ""
	DomainMode      Domain = "mode"
	DomainWorked    Domain = "worked"
	DomainNoReason  Domain = "noreason"
	DomainBigAction Domain = "bigaction"
	DomainYesNext   Domain = "yesnext"
	DomainNudge     Domain = "nudge"
)

// Signal is one decoded inline-button press. Tokens look like "worked:yes";
// anything that doesn't parse or names an unknown domain decodes to
// DomainUnknown and is handled as a no-op downstream.
type Signal struct {
	Domain Domain
	Value  string
}

var knownDomains = map[Domain]bool{
	DomainMode:      true,
	DomainWorked:    true,
	DomainNoReason:  true,
	DomainBigAction: true,
	DomainYesNext:   true,
	DomainNudge:     true,
}

// ParseSignal decodes a callback token at the transport boundary.
func ParseSignal(token string) Signal {
	domain, value, ok := strings.Cut(token, ":")
	if !ok || !knownDomains[Domain(domain)] {
		return Signal{Domain: DomainUnknown, Value: token}
	}
	return Signal{Domain: Domain(domain), Value: value}
}

// Token renders the signal back into its callback-data form.
func (s Signal) Token() string {
	return string(s.Domain) + ":" + s.Value
}
