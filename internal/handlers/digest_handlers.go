package handlers

import (
	"fmt"
	"log"
	"time"
)

//
// --- Expiring-Membership Digest (Background Worker) ---
//

// RunExpiryDigest finds everything inside the ending-soon window and
// notifies the owning accounts. It is invoked by the scheduler, not by
// an HTTP route.
//
// Expiry itself is never written to storage: membership standing stays
// a view-time derivation. This job only produces notifications and a
// digest email.
func (h *Handlers) RunExpiryDigest() {
	now := time.Now()
	windowEnd := now.AddDate(0, 0, 7)

	// 1. --- Members Expiring Soon, Grouped by Owner ---
	query := `
		SELECT m.name, m.end_date, u.id, u.name, u.email
		FROM members m
		JOIN users u ON m.user_id = u.id
		WHERE m.end_date > ? AND m.end_date <= ?
		ORDER BY u.id, m.end_date ASC`

	rows, err := h.DB.Query(query, now, windowEnd)
	if err != nil {
		log.Printf("[digest] failed to query expiring members: %v", err)
		return
	}
	defer rows.Close()

	type ownerDigest struct {
		name    string
		email   string
		members []string
	}
	owners := make(map[string]*ownerDigest)
	var order []string

	for rows.Next() {
		var memberName, ownerID, ownerName, ownerEmail string
		var endDate time.Time
		if err := rows.Scan(&memberName, &endDate, &ownerID, &ownerName, &ownerEmail); err != nil {
			log.Printf("[digest] failed to scan expiring member: %v", err)
			return
		}
		if _, ok := owners[ownerID]; !ok {
			owners[ownerID] = &ownerDigest{name: ownerName, email: ownerEmail}
			order = append(order, ownerID)
		}
		owners[ownerID].members = append(owners[ownerID].members,
			fmt.Sprintf("%s (expires %s)", memberName, endDate.Format("2 Jan")))
	}
	if err = rows.Err(); err != nil {
		log.Printf("[digest] error iterating expiring members: %v", err)
		return
	}

	// 2. --- Notify Each Owner ---
	for _, ownerID := range order {
		d := owners[ownerID]

		tx, err := h.DB.Begin()
		if err != nil {
			log.Printf("[digest] failed to start transaction: %v", err)
			return
		}

		message := fmt.Sprintf("%d of your members expire within 7 days.", len(d.members))
		if err := h.AddNotification(tx, ownerID, message, ""); err != nil {
			log.Printf("[digest] %v", err)
			tx.Rollback()
			continue
		}
		if err := tx.Commit(); err != nil {
			log.Printf("[digest] failed to commit notification: %v", err)
			continue
		}

		h.Mailer.SendExpiringSoon(d.email, d.name, d.members)
	}

	if len(order) > 0 {
		log.Printf("[digest] notified %d account(s) of expiring members", len(order))
	}
}
