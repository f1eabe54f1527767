package constants

import "testing"

func TestScope_Valid(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
		want  bool
	}{
		{
			name:  "local is valid",
			scope: ScopeLocal,
			want:  true,
		},
		{
			name:  "global is valid",
			scope: ScopeGlobal,
			want:  true,
		},
		{
			name:  "empty string is invalid",
			scope: Scope(""),
			want:  false,
		},
		{
			name:  "both is no longer a data scope",
			scope: Scope("both"),
			want:  false,
		},
		{
			name:  "LOCAL uppercase is invalid",
			scope: Scope("LOCAL"),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Valid(); got != tt.want {
				t.Errorf("Scope.Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScope_String(t *testing.T) {
	if got := ScopeGlobal.String(); got != "global" {
		t.Errorf("Scope.String() = %v, want global", got)
	}
}

func TestTeacherGainBandsAreOrdered(t *testing.T) {
	if !(TeacherGainNoneCeiling < TeacherGainLowCeiling && TeacherGainLowCeiling < TeacherGainPeakCeiling) {
		t.Errorf("teacher gain ceilings out of order: %v, %v, %v",
			TeacherGainNoneCeiling, TeacherGainLowCeiling, TeacherGainPeakCeiling)
	}
	if !(DemandThreeThreshold < DemandTwoThreshold && DemandTwoThreshold < DemandOneThreshold && DemandOneThreshold < DemandNoneThreshold) {
		t.Errorf("demand thresholds out of order")
	}
}
