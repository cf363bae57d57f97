package cache

import "github.com/google/uuid"

// Query keys mirror the web client's query identities: one key per collection
// view plus one per single-entity view. Collection views are scoped by owning
// user since the process serves every trainer at once.

func ClientsKey(userID uuid.UUID) Key {
	return Key("clients:" + userID.String())
}

func ClientKey(clientID uuid.UUID) Key {
	return Key("client:" + clientID.String())
}

func TrainingPlansKey(userID uuid.UUID) Key {
	return Key("training-plans:" + userID.String())
}

func ClientTrainingPlansKey(clientID uuid.UUID) Key {
	return Key("client-training-plans:" + clientID.String())
}

func TrainingPlanKey(planID uuid.UUID) Key {
	return Key("training-plan:" + planID.String())
}

func AppointmentsKey(userID uuid.UUID) Key {
	return Key("appointments:" + userID.String())
}

func ClientAppointmentsKey(clientID uuid.UUID) Key {
	return Key("client-appointments:" + clientID.String())
}

func AlertsKey(userID uuid.UUID) Key {
	return Key("alerts:" + userID.String())
}
