package parser

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestParsePoolDetail(t *testing.T) {
	html := loadFixture(t, "pool_detail.html")

	pool, err := ParsePoolDetail(html, "POOL1")
	if err != nil {
		t.Fatalf("ParsePoolDetail() error = %v", err)
	}

	if pool.PoolID != "POOL1" {
		t.Errorf("PoolID = %q, want %q", pool.PoolID, "POOL1")
	}
	if pool.PoolNumber != 3 {
		t.Errorf("PoolNumber = %d, want 3", pool.PoolNumber)
	}
	if pool.Strip == nil || *pool.Strip != "B2" {
		t.Errorf("Strip = %v, want B2", pool.Strip)
	}

	if len(pool.Fencers) != 3 {
		t.Fatalf("len(Fencers) = %d, want 3", len(pool.Fencers))
	}

	first := pool.Fencers[0]
	if first.Name != "SMITH John" {
		t.Errorf("Fencers[0].Name = %q, want %q", first.Name, "SMITH John")
	}
	if first.Club != "NYAC" {
		t.Errorf("Fencers[0].Club = %q, want %q", first.Club, "NYAC")
	}
	if first.Indicator != "+2" {
		t.Errorf("Fencers[0].Indicator = %q, want %q", first.Indicator, "+2")
	}
	if first.Victories != "1" || first.Ratio != "1.00" {
		t.Errorf("Fencers[0] stats = (%q, %q), want (1, 1.00)", first.Victories, first.Ratio)
	}
	if pool.Fencers[1].Club != "" {
		t.Errorf("Fencers[1].Club = %q, want empty", pool.Fencers[1].Club)
	}
}

func TestParsePoolDetailBouts(t *testing.T) {
	html := loadFixture(t, "pool_detail.html")

	pool, err := ParsePoolDetail(html, "POOL1")
	if err != nil {
		t.Fatalf("ParsePoolDetail() error = %v", err)
	}

	// 3 fencers yield exactly one bout per unordered pair.
	if len(pool.Bouts) != 3 {
		t.Fatalf("len(Bouts) = %d, want 3", len(pool.Bouts))
	}

	smithJones := pool.Bouts[0]
	if smithJones.FencerA != "SMITH John" || smithJones.FencerB != "JONES Amy" {
		t.Fatalf("Bouts[0] pair = (%q, %q)", smithJones.FencerA, smithJones.FencerB)
	}
	if smithJones.Status != BoutComplete || smithJones.Winner != WinnerA {
		t.Errorf("Bouts[0] status/winner = %v/%v, want complete/A", smithJones.Status, smithJones.Winner)
	}
	if smithJones.ScoreA == nil || *smithJones.ScoreA != 5 || smithJones.ScoreB == nil || *smithJones.ScoreB != 3 {
		t.Errorf("Bouts[0] scores = %v-%v, want 5-3", smithJones.ScoreA, smithJones.ScoreB)
	}

	smithLee := pool.Bouts[1]
	if smithLee.Status != BoutIncomplete || smithLee.Winner != WinnerUnknown {
		t.Errorf("Bouts[1] status/winner = %v/%v, want incomplete/unknown", smithLee.Status, smithLee.Winner)
	}
	if smithLee.ScoreA != nil || smithLee.ScoreB != nil {
		t.Errorf("Bouts[1] scores = %v-%v, want nil-nil", smithLee.ScoreA, smithLee.ScoreB)
	}

	jonesLee := pool.Bouts[2]
	if jonesLee.Status != BoutComplete || jonesLee.Winner != WinnerA {
		t.Errorf("Bouts[2] status/winner = %v/%v, want complete/A", jonesLee.Status, jonesLee.Winner)
	}
	if jonesLee.ScoreA == nil || *jonesLee.ScoreA != 5 || jonesLee.ScoreB == nil || *jonesLee.ScoreB != 4 {
		t.Errorf("Bouts[2] scores = %v-%v, want 5-4", jonesLee.ScoreA, jonesLee.ScoreB)
	}
}

func TestParsePoolDetailIdempotent(t *testing.T) {
	html := loadFixture(t, "pool_detail.html")

	first, err := ParsePoolDetail(html, "POOL1")
	if err != nil {
		t.Fatalf("ParsePoolDetail() error = %v", err)
	}
	second, err := ParsePoolDetail(html, "POOL1")
	if err != nil {
		t.Fatalf("ParsePoolDetail() repeat error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated parse differs:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func twoFencerPool(cellA, cellB string) string {
	row := func(name, cell string) string {
		score := `<td class="poolScore poolScoreFill"></td>`
		if cell != "" {
			score = fmt.Sprintf(`<td class="poolScore"><span>%s</span></td>`, cell)
		}
		return fmt.Sprintf(`<tr class="poolRow"><td><span class="poolCompName">%s</span></td><td class="poolFill"></td>%s</tr>`, name, score)
	}
	return `<h4 class="poolNum">Pool #1</h4><table>` + row("A One", cellA) + row("B Two", cellB) + `</table>`
}

func TestParsePoolDetailScoreCells(t *testing.T) {
	tests := []struct {
		name       string
		cellA      string
		cellB      string
		wantScoreA *int
		wantScoreB *int
		wantWinner Winner
		wantStatus BoutStatus
	}{
		{
			name:       "long bout keeps real touch counts",
			cellA:      "V15",
			cellB:      "D9",
			wantScoreA: intPtr(15),
			wantScoreB: intPtr(9),
			wantWinner: WinnerA,
			wantStatus: BoutComplete,
		},
		{
			name:       "lone victory cell",
			cellA:      "V5",
			cellB:      "",
			wantScoreA: intPtr(5),
			wantWinner: WinnerA,
			wantStatus: BoutComplete,
		},
		{
			name:       "lone defeat cell leaves bout unconfirmed",
			cellA:      "D2",
			cellB:      "",
			wantScoreA: intPtr(2),
			wantWinner: WinnerB,
			wantStatus: BoutIncomplete,
		},
		{
			name:       "double victory is inconsistent",
			cellA:      "V5",
			cellB:      "V5",
			wantWinner: WinnerUnknown,
			wantStatus: BoutIncomplete,
		},
		{
			name:       "no cells",
			cellA:      "",
			cellB:      "",
			wantWinner: WinnerUnknown,
			wantStatus: BoutIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := ParsePoolDetail(twoFencerPool(tt.cellA, tt.cellB), "P")
			if err != nil {
				t.Fatalf("ParsePoolDetail() error = %v", err)
			}
			if len(pool.Bouts) != 1 {
				t.Fatalf("len(Bouts) = %d, want 1", len(pool.Bouts))
			}

			bout := pool.Bouts[0]
			if bout.Winner != tt.wantWinner {
				t.Errorf("Winner = %q, want %q", bout.Winner, tt.wantWinner)
			}
			if bout.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", bout.Status, tt.wantStatus)
			}
			if !intPtrEqual(bout.ScoreA, tt.wantScoreA) {
				t.Errorf("ScoreA = %v, want %v", bout.ScoreA, tt.wantScoreA)
			}
			if !intPtrEqual(bout.ScoreB, tt.wantScoreB) {
				t.Errorf("ScoreB = %v, want %v", bout.ScoreB, tt.wantScoreB)
			}
		})
	}
}

func TestParsePoolDetailErrors(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "missing pool number",
			html: `<table><tr class="poolRow"><td><span class="poolCompName">A</span></td></tr></table>`,
		},
		{
			name: "missing roster",
			html: `<h4 class="poolNum">Pool #1</h4><table></table>`,
		},
		{
			name: "rows without names",
			html: `<h4 class="poolNum">Pool #1</h4><table><tr class="poolRow"><td></td></tr></table>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePoolDetail(tt.html, "P")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("error type = %T, want *ParseError", err)
			}
		})
	}
}

func TestParsePoolDetailMissingStrip(t *testing.T) {
	pool, err := ParsePoolDetail(twoFencerPool("V5", "D1"), "P")
	if err != nil {
		t.Fatalf("ParsePoolDetail() error = %v", err)
	}
	if pool.Strip != nil {
		t.Errorf("Strip = %v, want nil", pool.Strip)
	}
}

func intPtr(n int) *int { return &n }

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
