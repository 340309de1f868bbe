package jobber

// clientCreateMutation creates a client record from a form submission.
const clientCreateMutation = `
mutation CreateClient($input: ClientCreateInput!) {
  clientCreate(input: $input) {
    client {
      id
      firstName
      lastName
    }
    userErrors {
      message
      path
    }
  }
}`

// clientNoteCreateMutation attaches a free-text note to an existing client.
const clientNoteCreateMutation = `
mutation CreateClientNote($clientId: EncodedId!, $note: String!) {
  clientCreateNote(clientId: $clientId, input: { message: $note }) {
    clientNote {
      id
    }
    userErrors {
      message
    }
  }
}`
