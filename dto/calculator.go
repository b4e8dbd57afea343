package dto

// CalculateRequest describes a school's current setup. HasWindows and
// HasOffice default to true when omitted, matching the questionnaire.
type CalculateRequest struct {
	NbMachines         int   `json:"nbMachines" validate:"gte=0"`
	NbUsers            int   `json:"nbUsers" validate:"gte=0"`
	HasWindows         *bool `json:"hasWindows"`
	HasOffice          *bool `json:"hasOffice"`
	HasGoogleWorkspace bool  `json:"hasGoogleWorkspace"`
	NbObsoleteMachines int   `json:"nbObsoleteMachines" validate:"gte=0"`
	FreeSoftwareCount  int   `json:"logicielsLibres" validate:"gte=0"`
	TotalSoftwareCount int   `json:"logicielsTotal" validate:"gte=0"`
	LinuxMachines      int   `json:"materielLinux" validate:"gte=0"`
	LocalData          bool  `json:"donneesLocales"`
	InternalSkills     bool  `json:"competencesInternes"`
}

func (r CalculateRequest) Validate() error {
	return GetValidator().Struct(r)
}

type BigTechCosts struct {
	Windows int `json:"windows"`
	Office  int `json:"office"`
	Google  int `json:"google"`
	Renewal int `json:"renewal"`
	Total   int `json:"total"`
}

type MigrationCosts struct {
	Support  int `json:"support"`
	Training int `json:"training"`
	Server   int `json:"server"`
	Total    int `json:"total"`
}

type CalculationCosts struct {
	BigTech BigTechCosts   `json:"bigTech"`
	Nird    MigrationCosts `json:"nird"`
}

type SavingsResult struct {
	Amount  int `json:"amount"`
	Percent int `json:"percent"`
}

type CarbonResult struct {
	MachinesSaved   int `json:"machinesSaved"`
	CO2AvoidedKg    int `json:"co2Avoided"`
	TreesEquivalent int `json:"treesEquivalent"`
}

type AutonomyResult struct {
	Score int    `json:"score"`
	Level string `json:"level"`
}

type RoadmapPhase struct {
	Name     string   `json:"name"`
	Duration string   `json:"duration"`
	Actions  []string `json:"actions"`
}

type CalculateResponse struct {
	Costs    CalculationCosts `json:"costs"`
	Savings  SavingsResult    `json:"savings"`
	Carbon   CarbonResult     `json:"carbon"`
	Autonomy AutonomyResult   `json:"autonomy"`
	Roadmap  []RoadmapPhase   `json:"roadmap"`
}
