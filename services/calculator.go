package services

import (
	"fmt"
	"math"

	"github.com/alphabatem/common/context"
	"github.com/nird-lab/nird_api/dto"
)

// Five-year projection constants, in euros and kg of CO2
const (
	windowsLicenseYear  = 150
	officeLicenseYear   = 100
	googleWorkspaceYear = 72

	techSupportYear  = 3000
	trainingOneTime  = 2000
	pcRenewalCost    = 600
	co2PerPCKg       = 200
	co2PerTreeYearKg = 22

	projectionYears = 5
)

// CalculatorService projects the cost, carbon and autonomy outcome of a
// school migrating off proprietary software. Pure, no persistence.
type CalculatorService struct {
	context.DefaultService
}

const CALCULATOR_SVC = "calculator_svc"

func (svc CalculatorService) Id() string {
	return CALCULATOR_SVC
}

func (svc *CalculatorService) Start() error {
	return nil
}

func (svc *CalculatorService) Compute(req dto.CalculateRequest) *dto.CalculateResponse {
	hasWindows := req.HasWindows == nil || *req.HasWindows
	hasOffice := req.HasOffice == nil || *req.HasOffice

	bigTech := dto.BigTechCosts{
		Renewal: req.NbObsoleteMachines * pcRenewalCost,
	}
	if hasWindows {
		bigTech.Windows = windowsLicenseYear * req.NbMachines * projectionYears
	}
	if hasOffice {
		bigTech.Office = officeLicenseYear * req.NbUsers * projectionYears
	}
	if req.HasGoogleWorkspace {
		bigTech.Google = googleWorkspaceYear * req.NbUsers * projectionYears
	}
	bigTech.Total = bigTech.Windows + bigTech.Office + bigTech.Google + bigTech.Renewal

	// The local server stays optional and is not counted by default
	nird := dto.MigrationCosts{
		Support:  techSupportYear * projectionYears,
		Training: trainingOneTime,
		Server:   0,
	}
	nird.Total = nird.Support + nird.Training + nird.Server

	savings := dto.SavingsResult{Amount: bigTech.Total - nird.Total}
	if bigTech.Total > 0 {
		savings.Percent = int(math.Round(float64(savings.Amount) / float64(bigTech.Total) * 100))
	}

	carbon := dto.CarbonResult{
		MachinesSaved: req.NbObsoleteMachines,
		CO2AvoidedKg:  req.NbObsoleteMachines * co2PerPCKg,
	}
	carbon.TreesEquivalent = int(math.Round(float64(carbon.CO2AvoidedKg) / co2PerTreeYearKg))

	autonomy := dto.AutonomyResult{Score: svc.autonomyScore(req)}
	autonomy.Level = autonomyLevel(autonomy.Score)

	return &dto.CalculateResponse{
		Costs:    dto.CalculationCosts{BigTech: bigTech, Nird: nird},
		Savings:  savings,
		Carbon:   carbon,
		Autonomy: autonomy,
		Roadmap:  buildRoadmap(autonomy.Score, req.NbMachines),
	}
}

// autonomyScore weighs software freedom (40), Linux hardware share (30),
// local data hosting (20) and in-house skills (10) into a 0-100 score.
func (svc *CalculatorService) autonomyScore(req dto.CalculateRequest) int {
	var softwareScore, hardwareScore float64
	if req.TotalSoftwareCount > 0 {
		softwareScore = float64(req.FreeSoftwareCount) / float64(req.TotalSoftwareCount) * 40
	}
	if req.NbMachines > 0 {
		hardwareScore = float64(req.LinuxMachines) / float64(req.NbMachines) * 30
	}

	score := softwareScore + hardwareScore
	if req.LocalData {
		score += 20
	}
	if req.InternalSkills {
		score += 10
	}
	return int(math.Round(score))
}

func autonomyLevel(score int) string {
	switch {
	case score >= 80:
		return "Expert - Village Résistant"
	case score >= 60:
		return "Avancé - En bonne voie"
	case score >= 40:
		return "Intermédiaire - Premiers pas"
	case score >= 20:
		return "Débutant - Prise de conscience"
	default:
		return "Dépendant - Empire numérique"
	}
}

func buildRoadmap(score, nbMachines int) []dto.RoadmapPhase {
	phases := []dto.RoadmapPhase{{
		Name:     "Sensibilisation",
		Duration: "1-2 mois",
		Actions: []string{
			"Présenter NIRD à l'équipe éducative",
			"Identifier les besoins et freins",
			"Former un groupe pilote",
		},
	}}

	if score < 30 {
		phases = append(phases, dto.RoadmapPhase{
			Name:     "Découverte",
			Duration: "3-6 mois",
			Actions: []string{
				"Tester alternatives libres (LibreOffice, Firefox...)",
				"Installer Linux sur 2-3 machines pilotes",
				"Documenter l'expérience",
			},
		})
	}

	pilotMachines := int(math.Ceil(float64(nbMachines) * 0.2))
	if pilotMachines > 10 {
		pilotMachines = 10
	}
	phases = append(phases, dto.RoadmapPhase{
		Name:     "Expérimentation",
		Duration: "6-12 mois",
		Actions: []string{
			fmt.Sprintf("Déployer Linux sur %d machines", pilotMachines),
			"Former les utilisateurs clés",
			"Mettre en place support technique",
		},
	})

	phases = append(phases, dto.RoadmapPhase{
		Name:     "Déploiement",
		Duration: "1-2 ans",
		Actions: []string{
			"Généraliser Linux sur toutes les machines compatibles",
			"Migrer stockage vers solutions locales",
			"Rejoindre la communauté NIRD",
		},
	})

	return phases
}
