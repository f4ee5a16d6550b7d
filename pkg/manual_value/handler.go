package manual_value

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/asutp/flowdesk/internal/rest"
	"github.com/asutp/flowdesk/internal/utils"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const internalErrorMessage = "internal server error"

// ValuesDTO is the PUT body. Omitted fields decode to nil and are stored as NULL.
type ValuesDTO struct {
	InitialValue *json.Number `json:"initial_value"`
	Expense      *json.Number `json:"expense"`
	Remainder    *json.Number `json:"remainder"`
	ChangeTime   *string      `json:"change_time"`
}

type RowDTO struct {
	RowId int64 `json:"row_id"`
	ValuesDTO
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// GetByDate godoc
// @Summary Get manual values for a day
// @Description Retrieve all manual value rows whose change_time falls on the given date, ordered by row_id
// @Tags ManualValue
// @Produce json
// @Param date path string true "Calendar date in YYYY-MM-DD format"
// @Success 200 {array} RowDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date format"
// @Failure 500 {string} string "Internal server error"
// @Router /api/manual/value/{date} [get]
func (h *Handler) GetByDate(w http.ResponseWriter, r *http.Request) {
	dateString := mux.Vars(r)["date"]
	day, err := time.Parse(utils.DateLayout, dateString)
	if err != nil {
		rest.WriteBadRequest(w, "Incorrect date format", "Date must be in YYYY-MM-DD format")
		return
	}

	rows, err := h.service.GetByDate(r.Context(), day)
	if err != nil {
		http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}

	rowsDTO := make([]RowDTO, 0, len(rows))
	for _, row := range rows {
		rowsDTO = append(rowsDTO, RowToDTO(row))
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rowsDTO); err != nil {
		log.Errorf("failed to encode manual values: %v", err)
	}
}

// UpdateRow godoc
// @Summary Replace a manual value row
// @Description Overwrite initial_value, expense, remainder and change_time of the row. Omitted fields are stored as null.
// @Tags ManualValue
// @Accept json
// @Param id path int true "Row ID"
// @Param row body ValuesDTO true "New values"
// @Success 200
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 500 {string} string "Internal server error"
// @Router /api/manual/value/{id} [put]
func (h *Handler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	idString := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idString, 10, 64)
	if err != nil {
		rest.WriteBadRequest(w, "Invalid id format", "Parameter id must be a number")
		return
	}

	// An empty body is taken as {} and clears every value.
	var valuesDTO ValuesDTO
	if err := json.NewDecoder(r.Body).Decode(&valuesDTO); err != nil && !errors.Is(err, io.EOF) {
		rest.WriteBadRequest(w, "Invalid request body format", err.Error())
		return
	}
	values, err := ValuesFromDTO(valuesDTO)
	if err != nil {
		rest.WriteBadRequest(w, "Invalid request body", err.Error())
		return
	}

	if err := h.service.UpdateRow(r.Context(), id, values); err != nil {
		http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func RowToDTO(row Row) RowDTO {
	return RowDTO{
		RowId:     row.RowId,
		ValuesDTO: ValuesToDTO(row.Values),
	}
}

func RowFromDTO(dto RowDTO) (Row, error) {
	values, err := ValuesFromDTO(dto.ValuesDTO)
	if err != nil {
		return Row{}, err
	}
	return Row{RowId: dto.RowId, Values: values}, nil
}

func ValuesToDTO(values Values) ValuesDTO {
	dto := ValuesDTO{
		InitialValue: numberFromDecimal(values.InitialValue),
		Expense:      numberFromDecimal(values.Expense),
		Remainder:    numberFromDecimal(values.Remainder),
	}
	if values.ChangeTime != nil {
		changeTime := values.ChangeTime.Format(ChangeTimeLayout)
		dto.ChangeTime = &changeTime
	}
	return dto
}

func ValuesFromDTO(dto ValuesDTO) (Values, error) {
	var values Values
	var err error
	if values.InitialValue, err = decimalFromNumber(dto.InitialValue); err != nil {
		return Values{}, fmt.Errorf("initial_value: %w", err)
	}
	if values.Expense, err = decimalFromNumber(dto.Expense); err != nil {
		return Values{}, fmt.Errorf("expense: %w", err)
	}
	if values.Remainder, err = decimalFromNumber(dto.Remainder); err != nil {
		return Values{}, fmt.Errorf("remainder: %w", err)
	}
	if dto.ChangeTime != nil {
		changeTime, err := ParseChangeTime(*dto.ChangeTime)
		if err != nil {
			return Values{}, err
		}
		values.ChangeTime = &changeTime
	}
	return values, nil
}

func numberFromDecimal(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := json.Number(d.Decimal.String())
	return &n
}

func decimalFromNumber(n *json.Number) (decimal.NullDecimal, error) {
	if n == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
