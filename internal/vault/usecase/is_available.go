package usecase

import "context"

// IsAvailable reports whether the OS secure store was usable at startup.
// It never errors; any doubt at probe time already resolved to false.
func (s *Usecase) IsAvailable(ctx context.Context) bool {
	_, span := s.startSpan(ctx, "IsAvailable")
	defer span.End()

	return s.available
}
