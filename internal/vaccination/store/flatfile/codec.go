package flatfile

import (
	"fmt"
	"strconv"

	"vaxreg/internal/vaccination/models"
)

// Field counts per record, no header row.
const (
	citizenFields     = 6 // name,age,phone,id,dose1Completed,dose2Completed
	centerFields      = 4 // centerId,name,location,dailyCapacity
	appointmentFields = 5 // appointmentId,citizenId,centerId,doseKind,date
)

func encodeCitizen(c models.Citizen) []string {
	return []string{
		c.Name,
		strconv.Itoa(c.Age),
		c.Phone,
		c.ID,
		strconv.FormatBool(c.Dose1Completed),
		strconv.FormatBool(c.Dose2Completed),
	}
}

func decodeCitizen(rec []string) (models.Citizen, error) {
	age, err := strconv.Atoi(rec[1])
	if err != nil {
		return models.Citizen{}, fmt.Errorf("age %q is not an integer", rec[1])
	}
	c, err := models.NewCitizen(rec[0], age, rec[2], rec[3])
	if err != nil {
		return models.Citizen{}, err
	}
	if c.Dose1Completed, err = parseBool(rec[4]); err != nil {
		return models.Citizen{}, err
	}
	if c.Dose2Completed, err = parseBool(rec[5]); err != nil {
		return models.Citizen{}, err
	}
	return *c, nil
}

func encodeCenter(c models.Center) []string {
	return []string{c.ID, c.Name, c.Location, strconv.Itoa(c.DailyCapacity)}
}

func decodeCenter(rec []string) (models.Center, error) {
	capacity, err := strconv.Atoi(rec[3])
	if err != nil {
		return models.Center{}, fmt.Errorf("daily capacity %q is not an integer", rec[3])
	}
	c, err := models.NewCenter(rec[0], rec[1], rec[2], capacity)
	if err != nil {
		return models.Center{}, err
	}
	return *c, nil
}

func encodeAppointment(a models.Appointment) []string {
	return []string{a.ID, a.CitizenID, a.CenterID, a.Dose.String(), a.Date.String()}
}

func decodeAppointment(rec []string) (models.Appointment, error) {
	if rec[0] == "" {
		return models.Appointment{}, fmt.Errorf("appointment ID is empty")
	}
	dose, err := models.ParseDoseKind(rec[3])
	if err != nil {
		return models.Appointment{}, err
	}
	date, err := models.ParseDate(rec[4])
	if err != nil {
		return models.Appointment{}, err
	}
	return models.Appointment{
		ID:        rec[0],
		CitizenID: rec[1],
		CenterID:  rec[2],
		Dose:      dose,
		Date:      date,
	}, nil
}

// parseBool accepts only the literals written by encode.
func parseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("boolean %q must be true or false", s)
	}
}
