package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FanchonSora/V-Assistant/internal/chat"
	"github.com/FanchonSora/V-Assistant/internal/model"
	"github.com/FanchonSora/V-Assistant/internal/storage"
)

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	handlers := chat.Handlers{
		Add: func(args chat.AddArgs) (chat.Result, error) {
			task := storage.Task{
				ID:        uuid.NewString(),
				OwnerID:   user.ID,
				Title:     args.Title,
				TaskDate:  args.TaskDate,
				TaskTime:  args.TaskTime,
				Status:    string(model.StatusPending),
				CreatedAt: s.now().UTC(),
			}
			if err := s.repo.CreateTask(r.Context(), task); err != nil {
				return chat.Result{}, err
			}
			s.scheduleReminder(task)
			reply := fmt.Sprintf("Added %q", task.Title)
			if task.TaskDate != "" {
				reply += " on " + task.TaskDate
			}
			if task.TaskTime != "" {
				reply += " at " + task.TaskTime
			}
			return chat.Result{Reply: reply + "."}, nil
		},
		Show: func(args chat.ShowArgs) (chat.Result, error) {
			tasks, err := s.repo.ListTasks(r.Context(), storage.TaskListFilter{
				OwnerID: user.ID,
				Date:    args.TaskDate,
			})
			if err != nil {
				return chat.Result{}, err
			}
			if len(tasks) == 0 {
				return chat.Result{Reply: "No tasks on " + args.TaskDate + "."}, nil
			}
			lines := make([]string, 0, len(tasks)+1)
			lines = append(lines, fmt.Sprintf("Tasks on %s:", args.TaskDate))
			for _, t := range tasks {
				line := "- " + t.Title
				if t.TaskTime != "" {
					line += " at " + t.TaskTime
				}
				if t.Status == string(model.StatusDone) {
					line += " (done)"
				}
				lines = append(lines, line)
			}
			return chat.Result{Reply: strings.Join(lines, "\n")}, nil
		},
	}

	result, err := chat.Respond(req.Text, s.now().In(time.Local), handlers)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not handle message")
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: result.Reply})
}
