// Package catalog defines the authoritative status catalogs for claim
// and assistance tickets: the ordered status sequence per kind, the
// display label for each code, and the lifecycle stage grouping used by
// the stepper. The catalogs are curated business data; ordering and
// stage assignment are fixed and must not be derived.
package catalog

import (
	"fmt"

	"github.com/rcorp/claims-service/internal/domain"
)

// Claim status codes, in catalog order.
const (
	ClaimOpened             domain.Status = "aberto"
	ClaimInsurerAnalysis    domain.Status = "analise_seguradora"
	ClaimAwaitingInspection domain.Status = "aguardando_vistoria"
	ClaimAwaitingDocument   domain.Status = "aguardando_documento"
	ClaimAtWorkshop         domain.Status = "na_oficina"
	ClaimAwaitingParts      domain.Status = "aguardando_pecas"
	ClaimUnderRepair        domain.Status = "em_reparo"
	ClaimRepairDone         domain.Status = "reparo_concluido"
	ClaimFinalInspection    domain.Status = "vistoria_final"
	ClaimAwaitingPickup     domain.Status = "aguardando_retirada"
	ClaimAwaitingPayment    domain.Status = "aguardando_pagamento"
	ClaimReleased           domain.Status = "liberado"
	ClaimFinished           domain.Status = "finalizado"
	ClaimIndemnityPaid      domain.Status = "indenizacao_paga"
	ClaimDenied             domain.Status = "negado"
	ClaimCancelled          domain.Status = "cancelado"
)

// Assistance status codes, in catalog order.
const (
	AssistOpened            domain.Status = "aberto"
	AssistInProgress        domain.Status = "atendimento_andamento"
	AssistCoverageAnalysis  domain.Status = "analise_cobertura"
	AssistTowDispatched     domain.Status = "guincho_acionado"
	AssistVehicleCollected  domain.Status = "veiculo_recolhido"
	AssistAwaitingDocument  domain.Status = "aguardando_documento"
	AssistAtWorkshop        domain.Status = "na_oficina"
	AssistUnderRepair       domain.Status = "em_reparo"
	AssistServiceDone       domain.Status = "servico_concluido"
	AssistAwaitingPickup    domain.Status = "aguardando_retirada"
	AssistVehicleDelivered  domain.Status = "veiculo_entregue"
	AssistCancelled         domain.Status = "cancelado"
	AssistFinished          domain.Status = "finalizado"
)

// StatusStep is one catalog entry: a status code, its display label and
// the lifecycle stage it belongs to.
type StatusStep struct {
	Code  domain.Status
	Label string
	Stage domain.Stage
}

var claimSteps = []StatusStep{
	{ClaimOpened, "Aberto", domain.StageOpening},
	{ClaimInsurerAnalysis, "Em análise pela seguradora", domain.StageAnalysis},
	{ClaimAwaitingInspection, "Aguardando vistoria", domain.StageAnalysis},
	{ClaimAwaitingDocument, "Aguardando documentação", domain.StageAnalysis},
	{ClaimAtWorkshop, "Veículo na oficina", domain.StageExecution},
	{ClaimAwaitingParts, "Aguardando peças", domain.StageExecution},
	{ClaimUnderRepair, "Em reparo", domain.StageExecution},
	{ClaimRepairDone, "Reparo concluído", domain.StageExecution},
	{ClaimFinalInspection, "Vistoria final", domain.StageFinalization},
	{ClaimAwaitingPickup, "Aguardando retirada", domain.StageFinalization},
	{ClaimAwaitingPayment, "Aguardando pagamento", domain.StageFinalization},
	{ClaimReleased, "Veículo liberado", domain.StageFinalization},
	{ClaimFinished, "Finalizado", domain.StageClosed},
	{ClaimIndemnityPaid, "Indenização paga", domain.StageClosed},
	{ClaimDenied, "Sinistro negado", domain.StageClosed},
	{ClaimCancelled, "Cancelado", domain.StageClosed},
}

var assistanceSteps = []StatusStep{
	{AssistOpened, "Aberto", domain.StageOpening},
	{AssistInProgress, "Atendimento em andamento", domain.StageExecution},
	{AssistCoverageAnalysis, "Análise de cobertura", domain.StageAnalysis},
	{AssistTowDispatched, "Guincho acionado", domain.StageExecution},
	{AssistVehicleCollected, "Veículo recolhido", domain.StageExecution},
	{AssistAwaitingDocument, "Aguardando documentação", domain.StageAnalysis},
	{AssistAtWorkshop, "Veículo na oficina", domain.StageExecution},
	{AssistUnderRepair, "Em reparo", domain.StageExecution},
	{AssistServiceDone, "Serviço concluído", domain.StageFinalization},
	{AssistAwaitingPickup, "Aguardando retirada", domain.StageFinalization},
	{AssistVehicleDelivered, "Veículo entregue", domain.StageFinalization},
	{AssistCancelled, "Cancelado", domain.StageClosed},
	{AssistFinished, "Finalizado", domain.StageClosed},
}

// UnknownStatusError reports a status code that is not part of the
// catalog for a ticket kind. It signals a data-integrity problem and is
// never coerced to a default status.
type UnknownStatusError struct {
	Kind   domain.TicketKind
	Status domain.Status
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("status %q not in %s catalog", e.Status, e.Kind)
}

// Steps returns the ordered catalog for the given kind. The returned
// slice is shared and must not be mutated.
func Steps(kind domain.TicketKind) []StatusStep {
	switch kind {
	case domain.KindClaim:
		return claimSteps
	case domain.KindAssistance:
		return assistanceSteps
	default:
		return nil
	}
}

// InitialStatus returns the status new tickets of the kind start in.
func InitialStatus(kind domain.TicketKind) domain.Status {
	steps := Steps(kind)
	if len(steps) == 0 {
		return ""
	}
	return steps[0].Code
}

// Index returns the position of a status in the kind's catalog, or an
// UnknownStatusError when the code is absent.
func Index(kind domain.TicketKind, status domain.Status) (int, error) {
	for i, step := range Steps(kind) {
		if step.Code == status {
			return i, nil
		}
	}
	return 0, &UnknownStatusError{Kind: kind, Status: status}
}

// Contains reports whether the status belongs to the kind's catalog.
func Contains(kind domain.TicketKind, status domain.Status) bool {
	_, err := Index(kind, status)
	return err == nil
}

// Label returns the display label for a status code.
func Label(kind domain.TicketKind, status domain.Status) (string, error) {
	i, err := Index(kind, status)
	if err != nil {
		return "", err
	}
	return Steps(kind)[i].Label, nil
}

// StageOf returns the lifecycle stage for a status code.
func StageOf(kind domain.TicketKind, status domain.Status) (domain.Stage, error) {
	i, err := Index(kind, status)
	if err != nil {
		return "", err
	}
	return Steps(kind)[i].Stage, nil
}

// IsTerminal reports whether the status belongs to the closed stage.
// Terminal tickets are not hard-locked: a further transition may still
// be issued to correct an erroneous closure.
func IsTerminal(kind domain.TicketKind, status domain.Status) bool {
	stage, err := StageOf(kind, status)
	return err == nil && stage == domain.StageClosed
}
