package table

import "testing"

func TestNormalizeFieldName_TableDriven(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Title", "title"},
		{"Release Date", "release_date"},
		{"IMDb Rating", "imdb_rating"},
		{"Worldwide Collection in Crores", "worldwide_collection_in_crores"},
		{"Lead Actor/Actress", "lead_actor_actress"},
		{"Budget (in Crores)", "budget_in_crores"},
		{"  OTT Platform  ", "ott_platform"},
		{"First-Day.Collection", "first_day_collection"},
		{"U/A+", "u_aplus"},
		{"Crédit Agricolé", "credit_agricole"},
		{"___", ""},
		{"", ""},
		{"already_canonical", "already_canonical"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeFieldName(tt.in); got != tt.want {
				t.Fatalf("NormalizeFieldName(%q)=%q want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeFieldName_Idempotent(t *testing.T) {
	t.Parallel()

	headers := []string{
		"Title", "Release Date", "IMDb Rating", "Lead Actor/Actress",
		"Budget (in Crores)", "Verdict", "OTT Platform", "DirectorID",
		"Genere", "First Day Collection Worldwide in Crores",
	}
	for _, h := range headers {
		once := NormalizeFieldName(h)
		twice := NormalizeFieldName(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q -> %q", h, once, twice)
		}
	}
}
