package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/example/seatsched/internal/domain/seat"
	"github.com/example/seatsched/internal/infrastructure/icspace"
	"github.com/example/seatsched/internal/internaltypes"
)

// SeatBooker is the write side of the booking service.
type SeatBooker interface {
	Reserve(ctx context.Context, token string, req icspace.ReserveRequest) (icspace.Reply, error)
}

// codeOK is the ic-web success code.
const codeOK = 0

// ReserveSeat submits exactly one reservation for a decided candidate.
type ReserveSeat struct {
	Booker SeatBooker
}

// Execute reserves interval on dev for the day starting at dayStart. Every
// failure the caller can recover from is reported in the result; the error
// return is reserved for a rejected session. Cancelling ctx does not abort a
// submitted request, since the server may commit it regardless.
func (u ReserveSeat) Execute(ctx context.Context, dev seat.Device, interval seat.FreeInterval, dayStart time.Time, id seat.Identity) (seat.ReservationResult, error) {
	res := seat.ReservationResult{DeviceID: dev.ID}
	if u.Booker == nil {
		return res, fmt.Errorf("booker is nil")
	}
	if _, err := strconv.ParseInt(dev.ID, 10, 64); err != nil {
		res.Message = fmt.Sprintf("device id %q is not numeric", dev.ID)
		return res, nil
	}

	req := icspace.NewReserveRequest(id.AccountNo, dev.ID, seat.At(dayStart, interval.Start), seat.At(dayStart, interval.End))
	reply, err := u.Booker.Reserve(context.WithoutCancel(ctx), id.Token, req)
	if err != nil {
		if errors.Is(err, internaltypes.ErrAuthExpired) {
			return res, err
		}
		res.Message = err.Error()
		return res, nil
	}
	res.Success = reply.Code == codeOK
	res.Message = reply.Message
	return res, nil
}
