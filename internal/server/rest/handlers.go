package rest

import (
	"github.com/dmitrijs2005/taskkeeper/internal/server/pagination"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) signup(c *fiber.Ctx) error {
	req, err := bind[signupRequest](c)
	if err != nil {
		return err
	}

	user, err := s.users.Register(c.UserContext(), req.Email, req.Name, req.Password)
	if err != nil {
		return err
	}

	s.logger.Info(c.UserContext(), "user registered", "user_id", user.ID)

	return c.Status(fiber.StatusCreated).JSON(signupResponse{Message: "User created!", UserID: user.ID})
}

func (s *Server) login(c *fiber.Ctx) error {
	req, err := bind[loginRequest](c)
	if err != nil {
		return err
	}

	sess, err := s.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(loginResponse{Message: "Logged in.", Token: sess.Token, UserID: sess.UserID})
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	page, err := s.tasks.List(c.UserContext(), userID, pagination.ParseNumber(c.Query("page")))
	if err != nil {
		return err
	}

	tasks := make([]taskJSON, 0, len(page.Tasks))
	for _, t := range page.Tasks {
		tasks = append(tasks, newTaskJSON(t))
	}

	return c.JSON(listTasksResponse{
		Message:    "Fetched tasks successfully.",
		Tasks:      tasks,
		TotalItems: page.TotalItems,
	})
}

func (s *Server) createTask(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	req, err := bind[taskRequest](c)
	if err != nil {
		return err
	}

	created, err := s.tasks.Create(c.UserContext(), userID, services.TaskInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}

	s.logger.Info(c.UserContext(), "task created", "task_id", created.Task.ID, "user_id", userID)

	return c.Status(fiber.StatusCreated).JSON(createTaskResponse{
		Message: "Task created successfully!",
		Task:    newTaskJSON(created.Task),
		Creator: creatorJSON{ID: created.Creator.ID, Name: created.Creator.Name},
	})
}

func (s *Server) getTask(c *fiber.Ctx) error {
	task, err := s.tasks.Get(c.UserContext(), c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(taskResponse{Message: "Task fetched.", Task: newTaskJSON(task)})
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	req, err := bind[taskRequest](c)
	if err != nil {
		return err
	}

	task, err := s.tasks.Update(c.UserContext(), userID, c.Params("taskId"), services.TaskInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}

	return c.JSON(taskResponse{Message: "Task updated!", Task: newTaskJSON(task)})
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(c.UserContext(), userID, c.Params("taskId")); err != nil {
		return err
	}

	s.logger.Info(c.UserContext(), "task deleted", "task_id", c.Params("taskId"), "user_id", userID)

	return c.JSON(messageResponse{Message: "Deleted task."})
}
