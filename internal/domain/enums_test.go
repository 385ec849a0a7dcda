package domain

import "testing"

func TestEntityType_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		et   EntityType
		want bool
	}{
		{EntityTypeActivity, true},
		{EntityTypeTransaction, true},
		{EntityTypePeriodLocation, true},
		{EntityType("ENTRY"), false},
		{EntityType(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.et), func(t *testing.T) {
			t.Parallel()
			if got := tt.et.IsValid(); got != tt.want {
				t.Errorf("EntityType(%q).IsValid() = %v, want %v", tt.et, got, tt.want)
			}
		})
	}
}

func TestAuditAction_IsValid(t *testing.T) {
	t.Parallel()

	if !AuditActionCreate.IsValid() || !AuditActionUpdate.IsValid() || !AuditActionDelete.IsValid() {
		t.Fatal("known audit actions must be valid")
	}
	if AuditAction("PATCH").IsValid() {
		t.Error("PATCH should not be a valid audit action")
	}
}

func TestRole(t *testing.T) {
	t.Parallel()

	if !RoleAdmin.IsAdmin() {
		t.Error("RoleAdmin.IsAdmin() = false")
	}
	if RolePublisher.IsAdmin() {
		t.Error("RolePublisher.IsAdmin() = true")
	}
	if Role("owner").IsValid() {
		t.Error("unknown role should be invalid")
	}
	if got := RolePublisher.String(); got != "publisher" {
		t.Errorf("got %q, want publisher", got)
	}
}

func TestPeriodValueKind_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind PeriodValueKind
		want bool
	}{
		{PeriodValueTarget, true},
		{PeriodValueActual, true},
		{PeriodValueKind("baseline"), false},
	}
	for _, tt := range tests {
		if got := tt.kind.IsValid(); got != tt.want {
			t.Errorf("PeriodValueKind(%q).IsValid() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestIsReportingOrgVocabulary(t *testing.T) {
	t.Parallel()

	for vocab, want := range map[string]bool{"98": true, "99": true, "1": false, "": false} {
		if got := IsReportingOrgVocabulary(vocab); got != want {
			t.Errorf("IsReportingOrgVocabulary(%q) = %v, want %v", vocab, got, want)
		}
	}
}
