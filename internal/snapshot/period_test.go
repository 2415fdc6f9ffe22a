package snapshot

import "testing"

func TestGamePeriodNext(t *testing.T) {
	cfg := DefaultGameConfig()

	tests := []struct {
		name   string
		period GamePeriod
		tied   bool
		cfg    GameConfig
		want   GamePeriod
		wantOK bool
	}{
		{"between games always starts first half", BetweenGames, false, cfg, FirstHalf, true},
		{"first half to half time", FirstHalf, false, cfg, HalfTime, true},
		{"half time to second half", HalfTime, false, cfg, SecondHalf, true},
		{"second half, decisive, ends the game", SecondHalf, false, cfg, BetweenGames, true},
		{"second half tied, overtime allowed goes to pre-overtime", SecondHalf, true, overtimeCfg(cfg), PreOvertime, true},
		{"second half tied, only sudden death allowed", SecondHalf, true, suddenDeathOnlyCfg(cfg), PreSuddenDeath, true},
		{"overtime second half tied with sudden death", OvertimeSecondHalf, true, suddenDeathOnlyCfg(cfg), PreSuddenDeath, true},
		{"overtime second half decisive ends the game", OvertimeSecondHalf, false, overtimeCfg(cfg), BetweenGames, true},
		{"pre sudden death enters sudden death", PreSuddenDeath, true, cfg, SuddenDeath, true},
		{"sudden death has no natural successor", SuddenDeath, true, cfg, BetweenGames, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.period.Next(tt.tied, tt.cfg)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Next(tied=%v) = (%v, %v), want (%v, %v)", tt.tied, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGamePeriodPenaltiesTick(t *testing.T) {
	playPeriods := []GamePeriod{FirstHalf, SecondHalf, OvertimeFirstHalf, OvertimeSecondHalf, SuddenDeath}
	for _, p := range playPeriods {
		if !p.PenaltiesTick() {
			t.Errorf("%s.PenaltiesTick() = false, want true", p)
		}
		if p.IsBreak() {
			t.Errorf("%s.IsBreak() = true, want false", p)
		}
	}

	breakPeriods := []GamePeriod{BetweenGames, HalfTime, PreOvertime, OvertimeHalfTime, PreSuddenDeath}
	for _, p := range breakPeriods {
		if p.PenaltiesTick() {
			t.Errorf("%s.PenaltiesTick() = true, want false", p)
		}
		if !p.IsBreak() {
			t.Errorf("%s.IsBreak() = false, want true", p)
		}
	}
}

func TestGamePeriodClockStoppedByDefault(t *testing.T) {
	stopped := []GamePeriod{BetweenGames, HalfTime, OvertimeHalfTime, PreOvertime, PreSuddenDeath}
	for _, p := range stopped {
		if !p.ClockStoppedByDefault() {
			t.Errorf("%s.ClockStoppedByDefault() = false, want true", p)
		}
	}

	running := []GamePeriod{FirstHalf, SecondHalf, OvertimeFirstHalf, OvertimeSecondHalf, SuddenDeath}
	for _, p := range running {
		if p.ClockStoppedByDefault() {
			t.Errorf("%s.ClockStoppedByDefault() = true, want false", p)
		}
	}
}

func TestGamePeriodValid(t *testing.T) {
	if !SuddenDeath.Valid() {
		t.Error("SuddenDeath.Valid() = false, want true")
	}
	if GamePeriod(numGamePeriods).Valid() {
		t.Error("one past the last period reported valid")
	}
}

func overtimeCfg(cfg GameConfig) GameConfig {
	cfg.OvertimeAllowed = true
	return cfg
}

func suddenDeathOnlyCfg(cfg GameConfig) GameConfig {
	cfg.OvertimeAllowed = false
	cfg.SuddenDeathAllowed = true
	return cfg
}
